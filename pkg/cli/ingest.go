package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg       config
		inputPath string
		name      string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to archive (zip) file",
			Sources:     cli.EnvVars("HARRIER_INPUT"),
			Destination: &inputPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Source archive name recorded with the content (file name by default)",
			Destination: &name,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, ingestFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Process an archive: route support messages and exceptions",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			ctx = logging.With(ctx, logging.Default())

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read archive", goerr.V("path", inputPath))
			}

			if name == "" {
				name = inputPath
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			ingester, err := cfg.newIngest(ctx, repo)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " ingesting " + name
			sp.Start()
			result, err := ingester.Ingest(ctx, &ingest.Input{
				ArchiveName: name,
				Data:        data,
			})
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to ingest archive")
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal result")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", string(out))
			return nil
		},
	}
}
