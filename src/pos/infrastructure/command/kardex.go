package command

import (
	"context"
	"flag"
	"fmt"

	"sales/src/pos/domain/entity"

	"github.com/google/subcommands"
)

type kardexCmd struct {
	app     *App
	tenant  string
	product string
	branch  string
}

func (*kardexCmd) Name() string     { return "kardex" }
func (*kardexCmd) Synopsis() string { return "print the stock movements of a product" }
func (*kardexCmd) Usage() string {
	return `sales kardex -tenant <tenant_id> -product <product_id> [-branch <branch_id>]

  Without -branch prints the tenant-wide stock; with it, the branch stock.
`
}

func (c *kardexCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID.")
	f.StringVar(&c.product, "product", "", "Product ID.")
	f.StringVar(&c.branch, "branch", "", "Branch ID (optional).")
}

func (c *kardexCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		key entity.StockKey
		err error
	)
	if key.TenantID, err = parseID("tenant", c.tenant); err == nil {
		if key.ProductID, err = parseID("product", c.product); err == nil {
			key.BranchID, err = parseOptionalID("branch", c.branch)
		}
	}
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitUsageError
	}

	return c.app.withServices(ctx, func(s *Services) error {
		resp, err := s.GetKardex.Execute(ctx, key)
		if err != nil {
			return err
		}
		return c.app.printJSON(resp)
	})
}
