package repository

import (
	"context"
	"time"

	"github.com/m-mizutani/harrier/pkg/model"
)

// Repository defines the interface for exception and notification persistence.
// RecordOccurrence is the only mutation path for exception state.
type Repository interface {
	// RecordOccurrence atomically increments (or initializes) the occurrence
	// counter for the fingerprint of message and upserts its record. The
	// returned record carries the post-increment count. The increment is
	// atomic with respect to the read: concurrent calls for the same
	// fingerprint never lose updates.
	RecordOccurrence(ctx context.Context, message, sourceArchive string, observedAt time.Time) (*model.ExceptionRecord, error)

	// GetException retrieves the record for a fingerprint. Returns (nil, nil)
	// if the fingerprint has never been recorded.
	GetException(ctx context.Context, fp model.Fingerprint) (*model.ExceptionRecord, error)

	// ListExceptions retrieves all known exception records in first-observed
	// order.
	ListExceptions(ctx context.Context) ([]*model.ExceptionRecord, error)

	// PutNotification saves a notification record
	PutNotification(ctx context.Context, notification *model.Notification) error

	// ListNotifications retrieves notification records, newest first
	ListNotifications(ctx context.Context, offset, limit int) ([]*model.Notification, error)

	// Close releases underlying connections
	Close() error
}
