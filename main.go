package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"sales/src/pos/infrastructure/command"
	"sales/src/shared/infrastructure/config"
	"sales/src/shared/infrastructure/logger"

	"github.com/google/subcommands"
)

var envFile = flag.String("env-file", ".env", "Optional .env file loaded before reading the environment")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	flag.Parse()

	cfg := config.Load(*envFile)

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	command.Register(commander, command.NewApp(cfg, log))

	status := commander.Execute(context.Background())
	_ = log.Sync()
	os.Exit(int(status))
}
