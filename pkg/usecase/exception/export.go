package exception

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// Export streams the full exception table into BigQuery and returns the
// number of exported records.
func (u *UseCase) Export(ctx context.Context, bq adapter.BigQuery) (int, error) {
	records, err := u.repo.ListExceptions(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list exceptions for export")
	}

	if err := bq.InsertExceptions(ctx, records); err != nil {
		return 0, goerr.Wrap(err, "failed to export exceptions")
	}

	logging.From(ctx).Info("exported exceptions", "count", len(records))
	return len(records), nil
}
