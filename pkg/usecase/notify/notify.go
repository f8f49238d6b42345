package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// UseCase is the notification sink: it durably records notifications and
// lists them back. No dedup logic lives here.
type UseCase struct {
	repo repository.Repository
}

// New creates a new notify UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Notify validates and persists one notification, returning its ID.
func (u *UseCase) Notify(ctx context.Context, notification *model.Notification) (model.NotificationID, error) {
	if err := notification.Type.Validate(); err != nil {
		return "", err
	}
	if notification.Title == "" {
		return "", goerr.New("notification title is required", goerr.T(model.TagInvalidRequest))
	}

	if err := u.repo.PutNotification(ctx, notification); err != nil {
		return "", goerr.Wrap(err, "failed to put notification")
	}

	logging.From(ctx).Debug("notification recorded",
		"id", notification.ID, "type", notification.Type, "source", notification.SourceArchive)

	return notification.ID, nil
}

// ListOptions contains options for listing notifications
type ListOptions struct {
	Offset int
	Limit  int
}

// List retrieves notifications, newest first.
func (u *UseCase) List(ctx context.Context, opts ListOptions) ([]*model.Notification, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	notifications, err := u.repo.ListNotifications(ctx, opts.Offset, opts.Limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}
