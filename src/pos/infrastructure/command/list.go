package command

import (
	"context"
	"flag"
	"fmt"
	"time"

	"sales/src/pos/domain/port"

	"github.com/google/subcommands"
)

const dateLayout = "2006-01-02"

type listCmd struct {
	app    *App
	tenant string
	branch string
	from   string
	to     string
	number string
	limit  int
	offset int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list sales of a tenant, newest first" }
func (*listCmd) Usage() string {
	return `sales list -tenant <tenant_id> [-branch <branch_id>] [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-number V-000001] [-limit N] [-offset N]

  -to is inclusive: sales of that whole day are listed.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID.")
	f.StringVar(&c.branch, "branch", "", "Branch ID (optional).")
	f.StringVar(&c.from, "from", "", "First day (UTC).")
	f.StringVar(&c.to, "to", "", "Last day (UTC), inclusive.")
	f.StringVar(&c.number, "number", "", "Sale number or part of it, case-insensitive.")
	f.IntVar(&c.limit, "limit", 50, "Page size (max 200).")
	f.IntVar(&c.offset, "offset", 0, "Page offset.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitUsageError
	}

	return c.app.withServices(ctx, func(s *Services) error {
		resp, err := s.ListSales.Execute(ctx, filter)
		if err != nil {
			return err
		}
		return c.app.printJSON(resp)
	})
}

func (c *listCmd) filter() (port.SaleFilter, error) {
	filter := port.SaleFilter{Number: c.number, Limit: c.limit, Offset: c.offset}

	var err error
	if filter.TenantID, err = parseID("tenant", c.tenant); err != nil {
		return filter, err
	}
	if filter.BranchID, err = parseOptionalID("branch", c.branch); err != nil {
		return filter, err
	}
	if c.from != "" {
		from, err := time.Parse(dateLayout, c.from)
		if err != nil {
			return filter, fmt.Errorf("invalid -from: %w", err)
		}
		filter.From = &from
	}
	if c.to != "" {
		to, err := time.Parse(dateLayout, c.to)
		if err != nil {
			return filter, fmt.Errorf("invalid -to: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	return filter, nil
}
