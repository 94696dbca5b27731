package command

import (
	"context"
	"flag"
	"fmt"

	"sales/src/shared/infrastructure/database"

	"github.com/google/subcommands"
)

type migrateCmd struct {
	app *App
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply the embedded database migrations" }
func (*migrateCmd) Usage() string {
	return `sales migrate

  Applies every pending migration to the database configured with DB_*.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := database.Open(ctx, c.app.Config.Database)
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := database.Migrate(db, c.app.Config.Database.Name, c.app.Logger); err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
