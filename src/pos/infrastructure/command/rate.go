package command

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"sales/src/pos/domain/entity"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type rateCmd struct {
	app    *App
	tenant string
	from   string
	to     string
	value  string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "load an exchange rate used by margin pricing" }
func (*rateCmd) Usage() string {
	return `sales rate -from USD -to ARS -value 1000 [-tenant <tenant_id>]

  Without -tenant the rate is global. A tenant rate wins over the global one.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID (optional).")
	f.StringVar(&c.from, "from", "", "Base currency (ISO 4217).")
	f.StringVar(&c.to, "to", "", "Target currency (ISO 4217).")
	f.StringVar(&c.value, "value", "", "Units of -to per unit of -from.")
}

func (c *rateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tenantID, err := parseOptionalID("tenant", c.tenant)
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitUsageError
	}
	from, fromErr := entity.NormalizeCurrency(c.from, "")
	to, toErr := entity.NormalizeCurrency(c.to, "")
	if fromErr != nil || toErr != nil {
		fmt.Fprintln(c.app.Stderr, "-from and -to must be ISO 4217 currency codes")
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.value)
	if err != nil || !rate.IsPositive() {
		fmt.Fprintln(c.app.Stderr, "-value must be a positive decimal")
		return subcommands.ExitUsageError
	}

	return c.app.withServices(ctx, func(s *Services) error {
		if s.SetRate == nil {
			return errors.New("rates cannot be loaded on this backend")
		}
		return s.SetRate(ctx, tenantID, from, to, rate)
	})
}
