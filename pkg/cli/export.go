package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg     config
		dataset string
		table   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "BigQuery dataset ID",
			Sources:     cli.EnvVars("HARRIER_BQ_DATASET"),
			Destination: &dataset,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table ID",
			Value:       "exceptions",
			Sources:     cli.EnvVars("HARRIER_BQ_TABLE"),
			Destination: &table,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export the exception table to BigQuery",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			ctx = logging.With(ctx, logging.Default())

			if cfg.project == "" {
				return goerr.New("project is required for export")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			bq, err := adapter.NewBigQuery(ctx, cfg.project, dataset, table)
			if err != nil {
				return err
			}

			uc := exception.New(repo)

			count, err := uc.Export(ctx, bq)
			if err != nil {
				return goerr.Wrap(err, "failed to export exceptions")
			}

			fmt.Fprintf(c.Root().Writer, "exported %d exceptions to %s.%s\n", count, dataset, table)
			return nil
		},
	}
}
