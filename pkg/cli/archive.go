package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func archiveCommand() *cli.Command {
	var (
		cfg      config
		uploadID string
		output   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Upload ID of the retained archive",
			Destination: &uploadID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (<id>.zip by default)",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "GCS bucket holding retained archives",
			Sources:     cli.EnvVars("HARRIER_BUCKET"),
			Destination: &cfg.bucket,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "archive",
		Usage: "Fetch a retained raw archive back from the bucket",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			ctx = logging.With(ctx, logging.Default())

			storage, err := adapter.NewStorage(ctx, cfg.bucket)
			if err != nil {
				return err
			}

			r, err := storage.OpenArchive(ctx, uploadID)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch archive", goerr.V("uploadID", uploadID))
			}
			defer r.Close()

			if output == "" {
				output = uploadID + ".zip"
			}

			f, err := os.Create(output)
			if err != nil {
				return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
			}
			defer f.Close()

			n, err := io.Copy(f, r)
			if err != nil {
				return goerr.Wrap(err, "failed to write archive", goerr.V("path", output))
			}

			fmt.Fprintf(c.Root().Writer, "wrote %d bytes to %s\n", n, output)
			return nil
		},
	}
}
