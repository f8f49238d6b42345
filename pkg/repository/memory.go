package repository

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/harrier/pkg/model"
)

// Memory implements Repository with in-process state. Used for local runs
// without a GCP project and for tests. A single mutex guards all state; the
// read-increment-write of RecordOccurrence happens under the lock, which
// satisfies the per-fingerprint atomicity contract.
type Memory struct {
	mu            sync.Mutex
	exceptions    map[model.Fingerprint]*model.ExceptionRecord
	order         []model.Fingerprint
	notifications []*model.Notification
}

// NewMemory creates a new in-memory repository
func NewMemory() *Memory {
	return &Memory{
		exceptions: make(map[model.Fingerprint]*model.ExceptionRecord),
	}
}

func (r *Memory) RecordOccurrence(ctx context.Context, message, sourceArchive string, observedAt time.Time) (*model.ExceptionRecord, error) {
	fp := model.NewFingerprint(message)

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.exceptions[fp]
	if !ok {
		rec = &model.ExceptionRecord{
			Fingerprint: fp,
			FirstSeenAt: observedAt,
		}
		r.exceptions[fp] = rec
		r.order = append(r.order, fp)
	}

	rec.Message = message
	rec.SourceArchive = sourceArchive
	rec.ObservedAt = observedAt
	rec.Occurrences++

	copied := *rec
	return &copied, nil
}

func (r *Memory) GetException(ctx context.Context, fp model.Fingerprint) (*model.ExceptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.exceptions[fp]
	if !ok {
		return nil, nil
	}

	copied := *rec
	return &copied, nil
}

func (r *Memory) ListExceptions(ctx context.Context) ([]*model.ExceptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]*model.ExceptionRecord, 0, len(r.order))
	for _, fp := range r.order {
		copied := *r.exceptions[fp]
		records = append(records, &copied)
	}

	return records, nil
}

func (r *Memory) PutNotification(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *Memory) ListNotifications(ctx context.Context, offset, limit int) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Newest first, matching the Firestore ordering
	var notifications []*model.Notification
	for i := len(r.notifications) - 1 - offset; i >= 0 && len(notifications) < limit; i-- {
		copied := *r.notifications[i]
		notifications = append(notifications, &copied)
	}

	return notifications, nil
}

func (r *Memory) Close() error {
	return nil
}
