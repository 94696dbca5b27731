package command

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type showCmd struct {
	app    *App
	tenant string
	sale   string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print a sale with its items" }
func (*showCmd) Usage() string {
	return `sales show -tenant <tenant_id> -sale <sale_id>
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID.")
	f.StringVar(&c.sale, "sale", "", "Sale ID.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tenantID, err := parseID("tenant", c.tenant)
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitUsageError
	}
	saleID, err := parseID("sale", c.sale)
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitUsageError
	}

	return c.app.withServices(ctx, func(s *Services) error {
		resp, err := s.GetSale.Execute(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		return c.app.printJSON(resp)
	})
}

func parseID(name, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing -%s", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid -%s: %w", name, err)
	}
	return id, nil
}

func parseOptionalID(name, raw string) (uuid.NullUUID, error) {
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := parseID(name, raw)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}
