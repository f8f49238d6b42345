package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type NotificationID string

// NewNotificationID generates a new unique NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New().String())
}

type NotificationType string

const (
	NotificationTypeMessage            NotificationType = "message"
	NotificationTypeNewException       NotificationType = "new_exception"
	NotificationTypeDuplicateException NotificationType = "duplicate_exception"
	NotificationTypeIngestError        NotificationType = "ingest_error"
)

// Validate checks if the notification type is valid
func (t NotificationType) Validate() error {
	switch t {
	case NotificationTypeMessage, NotificationTypeNewException, NotificationTypeDuplicateException, NotificationTypeIngestError:
		return nil
	default:
		return goerr.New("invalid notification type", goerr.V("type", t), goerr.T(TagInvalidRequest))
	}
}

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// Notification is a durably recorded event for the support team. Details is a
// closed set of keys filled by the typed constructors below; handlers must not
// write free-form keys into it.
type Notification struct {
	ID            NotificationID     `json:"id"`
	Type          NotificationType   `json:"type"`
	Title         string             `json:"title"`
	Message       string             `json:"message"`
	SourceArchive string             `json:"source_archive"`
	Details       map[string]string  `json:"details,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Status        NotificationStatus `json:"status"`
}

func newNotification(t NotificationType, title, message, sourceArchive string, details map[string]string) *Notification {
	return &Notification{
		ID:            NewNotificationID(),
		Type:          t,
		Title:         title,
		Message:       message,
		SourceArchive: sourceArchive,
		Details:       details,
		CreatedAt:     time.Now(),
		Status:        NotificationStatusUnread,
	}
}

// NewMessageNotification records a support message found in an archive.
func NewMessageNotification(sourceArchive, body string) *Notification {
	return newNotification(NotificationTypeMessage, "Support message received", body, sourceArchive, nil)
}

// NewExceptionNotification records the first sighting of an exception.
func NewExceptionNotification(sourceArchive string, rec *ExceptionRecord) *Notification {
	return newNotification(NotificationTypeNewException, "New exception reported", rec.Message, sourceArchive, exceptionDetails(rec))
}

// NewDuplicateExceptionNotification records a repeated sighting of a known
// exception, with its running occurrence count.
func NewDuplicateExceptionNotification(sourceArchive string, rec *ExceptionRecord) *Notification {
	return newNotification(NotificationTypeDuplicateException, "Duplicate exception reported", rec.Message, sourceArchive, exceptionDetails(rec))
}

func exceptionDetails(rec *ExceptionRecord) map[string]string {
	return map[string]string{
		"fingerprint": string(rec.Fingerprint),
		"occurrences": strconv.FormatInt(rec.Occurrences, 10),
	}
}

// NewIngestErrorNotification records an archive that contained no member the
// classifier recognized.
func NewIngestErrorNotification(sourceArchive, reason string) *Notification {
	return newNotification(NotificationTypeIngestError, "Archive could not be processed", reason, sourceArchive, nil)
}
