package command

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"sales/src/pos/application/request"

	"github.com/google/subcommands"
)

type sellCmd struct {
	app  *App
	file string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "register a sale from a JSON request" }
func (*sellCmd) Usage() string {
	return `sales sell -f <request.json>

  Registers a sale atomically: stock, sale number, cash entry and metrics.
  Use -f - to read the request from stdin.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Path to the sale request (JSON). Use - for stdin.")
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(c.app.Stderr, "missing -f <request.json>")
		return subcommands.ExitUsageError
	}

	req, err := readSaleRequest(c.file)
	if err != nil {
		fmt.Fprintln(c.app.Stderr, err)
		return subcommands.ExitFailure
	}

	return c.app.withServices(ctx, func(s *Services) error {
		resp, err := s.CreateSale.Execute(ctx, req)
		if err != nil {
			return err
		}
		return c.app.printJSON(resp)
	})
}

func readSaleRequest(path string) (*request.CreateSaleRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req request.CreateSaleRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}
	return &req, nil
}
