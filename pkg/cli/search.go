package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg   config
		query string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Exception text to look up (exact match after normalization)",
			Destination: &query,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Look up an exception by its text",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			ctx = logging.With(ctx, logging.Default())

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			uc := exception.New(repo)

			out, err := uc.Search(ctx, query)
			if err != nil {
				return goerr.Wrap(err, "failed to search exception")
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal result")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", string(data))
			return nil
		},
	}
}
