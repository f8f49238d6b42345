package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:  "list",
		Usage: "List all known exceptions in first-observed order",
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

			out, err := uc.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list exceptions")
			}

			for _, rec := range out.Exceptions {
				msg := rec.Message
				if len(msg) > 80 {
					msg = msg[:77] + "..."
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%d\t%s\t%s\n",
					rec.Fingerprint[:12], rec.Occurrences, rec.SourceArchive, msg)
			}
			fmt.Fprintf(c.Root().Writer, "total: %d\n", out.Total)

			return nil
		},
	}
}
