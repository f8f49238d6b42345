package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/policy"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Ingestion
	bucket         string
	policyDir      string
	classifierPath string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (in-memory store when empty)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("HARRIER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// ingestFlags returns flags for the ingestion pipeline with destination config
func ingestFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "GCS bucket for raw archive retention (disabled when empty)",
			Sources:     cli.EnvVars("HARRIER_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego files deciding notification behavior",
			Sources:     cli.EnvVars("HARRIER_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
		&cli.StringFlag{
			Name:        "classifier",
			Usage:       "YAML file overriding archive member name hints",
			Sources:     cli.EnvVars("HARRIER_CLASSIFIER"),
			Destination: &cfg.classifierPath,
		},
	}
}

// setupLogging installs the default logger for the configured level
func (cfg *config) setupLogging() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stdout))
}

// newRepository creates a repository instance. Without a project ID the
// in-memory store is used, which only lives as long as the process.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		logging.From(ctx).Warn("no project configured, using in-memory store")
		return repository.NewMemory(), nil
	}

	return repository.NewFirestore(ctx, cfg.project, cfg.database)
}

// newIngest assembles the full ingestion pipeline over repo
func (cfg *config) newIngest(ctx context.Context, repo repository.Repository) (*ingest.UseCase, error) {
	classifier, err := ingest.LoadClassifier(cfg.classifierPath)
	if err != nil {
		return nil, err
	}

	pol, err := policy.Load(ctx, cfg.policyDir)
	if err != nil {
		return nil, err
	}

	opts := []ingest.Option{
		ingest.WithClassifier(classifier),
		ingest.WithPolicy(pol),
	}

	if cfg.bucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithStorage(storage))
	}

	return ingest.New(exception.New(repo), notify.New(repo), opts...), nil
}
