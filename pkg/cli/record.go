package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func recordCommand() *cli.Command {
	var (
		cfg     config
		message string
		source  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "message",
			Aliases:     []string{"m"},
			Usage:       "Exception message text",
			Destination: &message,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Source archive identifier",
			Destination: &source,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "record",
		Usage: "Record one exception occurrence directly",
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

			out, err := uc.Record(ctx, &exception.RecordInput{
				Message:       message,
				SourceArchive: source,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to record exception")
			}

			fmt.Fprintf(c.Root().Writer, "%s\toccurrences=%d\tduplicate=%v\n",
				out.Fingerprint, out.Occurrences, out.IsDuplicate)
			return nil
		},
	}
}
