package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func notificationsCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Offset for pagination",
			Value:       0,
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of notifications to list",
			Value:       100,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "notifications",
		Usage: "List recorded notifications, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			ctx = logging.With(ctx, logging.Default())

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			uc := notify.New(repo)

			notifications, err := uc.List(ctx, notify.ListOptions{
				Offset: int(offset),
				Limit:  int(limit),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to list notifications")
			}

			for _, n := range notifications {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\t%s\n",
					n.CreatedAt.Format("2006-01-02 15:04:05"), n.Type, n.Status, n.SourceArchive, n.Title)
			}

			return nil
		},
	}
}
