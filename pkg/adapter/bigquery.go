package adapter

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

// BigQuery is an interface for exporting exception records to BigQuery for
// offline analysis
type BigQuery interface {
	// InsertExceptions streams exception records into the configured table
	InsertExceptions(ctx context.Context, records []*model.ExceptionRecord) error
}

type bigqueryClient struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBigQuery creates a new BigQuery client bound to a dataset and table
func NewBigQuery(ctx context.Context, projectID, dataset, table string) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client:  client,
		dataset: dataset,
		table:   table,
	}, nil
}

type exceptionRow struct {
	Fingerprint   string    `bigquery:"fingerprint"`
	Message       string    `bigquery:"message"`
	SourceArchive string    `bigquery:"source_archive"`
	ObservedAt    time.Time `bigquery:"observed_at"`
	FirstSeenAt   time.Time `bigquery:"first_seen_at"`
	Occurrences   int64     `bigquery:"occurrences"`
	ExportedAt    time.Time `bigquery:"exported_at"`
}

func (bq *bigqueryClient) InsertExceptions(ctx context.Context, records []*model.ExceptionRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*exceptionRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &exceptionRow{
			Fingerprint:   string(rec.Fingerprint),
			Message:       rec.Message,
			SourceArchive: rec.SourceArchive,
			ObservedAt:    rec.ObservedAt,
			FirstSeenAt:   rec.FirstSeenAt,
			Occurrences:   rec.Occurrences,
			ExportedAt:    now,
		})
	}

	inserter := bq.client.Dataset(bq.dataset).Table(bq.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert exception rows",
			goerr.V("dataset", bq.dataset), goerr.V("table", bq.table), goerr.V("rows", len(rows)))
	}

	return nil
}
