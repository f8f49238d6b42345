package cli

import (
	"context"

	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run executes the harrier command line
func Run(ctx context.Context, argv []string) error {
	cmd := &cli.Command{
		Name:  "harrier",
		Usage: "Exception registry with duplicate counting",
		Commands: []*cli.Command{
			serveCommand(),
			ingestCommand(),
			recordCommand(),
			searchCommand(),
			listCommand(),
			notificationsCommand(),
			archiveCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return err
	}

	return nil
}
