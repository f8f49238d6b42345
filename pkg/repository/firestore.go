package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionExceptions    = "exceptions"
	collectionNotifications = "notifications"
)

// Firestore implements Repository using Cloud Firestore. The document ID of
// an exception is its fingerprint, so the occurrence counter lives in exactly
// one document and RunTransaction gives the read-increment-write atomicity
// the store requires. First-observed order is kept by ordering on
// first_seen_at; ties between concurrent first inserts are arbitrated by
// whichever transaction commits first.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID),
			goerr.T(model.TagStorageUnavailable))
	}

	return &Firestore{client: client}, nil
}

type exceptionDoc struct {
	Fingerprint   string    `firestore:"fingerprint"`
	Message       string    `firestore:"message"`
	SourceArchive string    `firestore:"source_archive"`
	ObservedAt    time.Time `firestore:"observed_at"`
	FirstSeenAt   time.Time `firestore:"first_seen_at"`
	Occurrences   int64     `firestore:"occurrences"`
}

func (d *exceptionDoc) toRecord() *model.ExceptionRecord {
	return &model.ExceptionRecord{
		Fingerprint:   model.Fingerprint(d.Fingerprint),
		Message:       d.Message,
		SourceArchive: d.SourceArchive,
		ObservedAt:    d.ObservedAt,
		FirstSeenAt:   d.FirstSeenAt,
		Occurrences:   d.Occurrences,
	}
}

func (r *Firestore) RecordOccurrence(ctx context.Context, message, sourceArchive string, observedAt time.Time) (*model.ExceptionRecord, error) {
	fp := model.NewFingerprint(message)
	ref := r.client.Collection(collectionExceptions).Doc(string(fp))

	var result exceptionDoc
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get exception document")
		}

		doc := exceptionDoc{
			Fingerprint:   string(fp),
			Message:       message,
			SourceArchive: sourceArchive,
			ObservedAt:    observedAt,
			FirstSeenAt:   observedAt,
			Occurrences:   1,
		}
		if err == nil && snap.Exists() {
			var prev exceptionDoc
			if err := snap.DataTo(&prev); err != nil {
				return goerr.Wrap(err, "failed to decode exception document")
			}
			doc.FirstSeenAt = prev.FirstSeenAt
			doc.Occurrences = prev.Occurrences + 1
		}

		result = doc
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record occurrence",
			goerr.V("fingerprint", fp), goerr.T(model.TagStorageUnavailable))
	}

	return result.toRecord(), nil
}

func (r *Firestore) GetException(ctx context.Context, fp model.Fingerprint) (*model.ExceptionRecord, error) {
	snap, err := r.client.Collection(collectionExceptions).Doc(string(fp)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get exception",
			goerr.V("fingerprint", fp), goerr.T(model.TagStorageUnavailable))
	}

	var doc exceptionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode exception",
			goerr.V("fingerprint", fp), goerr.T(model.TagStorageUnavailable))
	}

	return doc.toRecord(), nil
}

func (r *Firestore) ListExceptions(ctx context.Context) ([]*model.ExceptionRecord, error) {
	iter := r.client.Collection(collectionExceptions).
		OrderBy("first_seen_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.ExceptionRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate exceptions", goerr.T(model.TagStorageUnavailable))
		}

		var doc exceptionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode exception", goerr.T(model.TagStorageUnavailable))
		}
		records = append(records, doc.toRecord())
	}

	return records, nil
}

type notificationDoc struct {
	ID            string            `firestore:"id"`
	Type          string            `firestore:"type"`
	Title         string            `firestore:"title"`
	Message       string            `firestore:"message"`
	SourceArchive string            `firestore:"source_archive"`
	Details       map[string]string `firestore:"details"`
	CreatedAt     time.Time         `firestore:"created_at"`
	Status        string            `firestore:"status"`
}

func (r *Firestore) PutNotification(ctx context.Context, notification *model.Notification) error {
	doc := notificationDoc{
		ID:            string(notification.ID),
		Type:          string(notification.Type),
		Title:         notification.Title,
		Message:       notification.Message,
		SourceArchive: notification.SourceArchive,
		Details:       notification.Details,
		CreatedAt:     notification.CreatedAt,
		Status:        string(notification.Status),
	}

	ref := r.client.Collection(collectionNotifications).Doc(string(notification.ID))
	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put notification",
			goerr.V("id", notification.ID), goerr.T(model.TagStorageUnavailable))
	}

	return nil
}

func (r *Firestore) ListNotifications(ctx context.Context, offset, limit int) ([]*model.Notification, error) {
	iter := r.client.Collection(collectionNotifications).
		OrderBy("created_at", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var notifications []*model.Notification
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications", goerr.T(model.TagStorageUnavailable))
		}

		var doc notificationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode notification", goerr.T(model.TagStorageUnavailable))
		}

		notifications = append(notifications, &model.Notification{
			ID:            model.NotificationID(doc.ID),
			Type:          model.NotificationType(doc.Type),
			Title:         doc.Title,
			Message:       doc.Message,
			SourceArchive: doc.SourceArchive,
			Details:       doc.Details,
			CreatedAt:     doc.CreatedAt,
			Status:        model.NotificationStatus(doc.Status),
		})
	}

	return notifications, nil
}

func (r *Firestore) Close() error {
	return r.client.Close()
}
