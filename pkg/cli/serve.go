package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/controller"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg  config
		addr string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("HARRIER_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, ingestFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (registry, notifications, archive upload)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			logger := logging.Default()
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			ingester, err := cfg.newIngest(ctx, repo)
			if err != nil {
				return err
			}

			srv := controller.New(exception.New(repo), notify.New(repo), ingester)
			server := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "http server failed")
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down http server")
			}

			return nil
		},
	}
}
