package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/policy"
	"github.com/m-mizutani/harrier/pkg/usecase/exception"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// Members larger than this are rejected before extraction.
const maxMemberSize = 10 << 20

// UseCase is the ingestion orchestrator: it extracts an uploaded archive,
// classifies its members by name, and routes content to the exception
// registry and the notification sink.
type UseCase struct {
	exceptions *exception.UseCase
	notifier   *notify.UseCase
	classifier *model.Classifier
	pol        *policy.Policy
	storage    adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage enables raw archive retention
func WithStorage(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = s
	}
}

// WithClassifier overrides the built-in member name hints
func WithClassifier(c *model.Classifier) Option {
	return func(uc *UseCase) {
		uc.classifier = c
	}
}

// WithPolicy sets the notification policy
func WithPolicy(p *policy.Policy) Option {
	return func(uc *UseCase) {
		uc.pol = p
	}
}

// New creates a new ingest UseCase instance
func New(exceptions *exception.UseCase, notifier *notify.UseCase, opts ...Option) *UseCase {
	uc := &UseCase{
		exceptions: exceptions,
		notifier:   notifier,
		classifier: model.DefaultClassifier(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Input is one uploaded archive
type Input struct {
	// ArchiveName identifies the upload in records and notifications. The
	// generated upload ID is used when empty.
	ArchiveName string
	// Data is the raw zip content
	Data []byte
}

// Result summarizes what one archive produced
type Result struct {
	UploadID      string                  `json:"upload_id"`
	SourceArchive string                  `json:"source_archive"`
	Message       string                  `json:"message,omitempty"`
	Exception     *exception.RecordOutput `json:"exception,omitempty"`
	Notifications []model.NotificationID  `json:"notifications,omitempty"`
}

// Ingest processes one uploaded archive: at most one message member and one
// exception member are handled, first match of each kind wins.
func (u *UseCase) Ingest(ctx context.Context, input *Input) (*Result, error) {
	if len(input.Data) == 0 {
		return nil, goerr.New("archive data is required", goerr.T(model.TagInvalidRequest))
	}

	uploadID := uuid.New().String()
	source := input.ArchiveName
	if source == "" {
		source = uploadID
	}

	logger := logging.From(ctx)

	if u.storage != nil {
		// Retention is best effort: a failed copy must not drop the upload
		if err := u.storage.SaveArchive(ctx, uploadID, input.Data); err != nil {
			logger.Warn("failed to retain raw archive", "uploadID", uploadID, "error", err)
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(input.Data), int64(len(input.Data)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive", goerr.V("source", source), goerr.T(model.TagInvalidRequest))
	}

	result := &Result{
		UploadID:      uploadID,
		SourceArchive: source,
	}

	messageBody, exceptionBody, err := u.pickMembers(zr)
	if err != nil {
		return nil, err
	}

	if messageBody != "" {
		id, err := u.notifier.Notify(ctx, model.NewMessageNotification(source, messageBody))
		if err != nil {
			return nil, err
		}
		result.Message = messageBody
		result.Notifications = append(result.Notifications, id)
	}

	if exceptionBody != "" {
		out, err := u.exceptions.Record(ctx, &exception.RecordInput{
			Message:       exceptionBody,
			SourceArchive: source,
		})
		if err != nil {
			return nil, err
		}
		result.Exception = out

		id, notified, err := u.notifyException(ctx, source, out)
		if err != nil {
			return nil, err
		}
		if notified {
			result.Notifications = append(result.Notifications, id)
		}
	}

	if messageBody == "" && exceptionBody == "" {
		id, err := u.notifier.Notify(ctx, model.NewIngestErrorNotification(source, "archive contains no message or exception member"))
		if err != nil {
			return nil, err
		}
		result.Notifications = append(result.Notifications, id)
	}

	logger.Info("archive ingested",
		"uploadID", uploadID,
		"source", source,
		"hasMessage", messageBody != "",
		"hasException", exceptionBody != "")

	return result, nil
}

// pickMembers scans the archive in member order and returns the content of
// the first message member and the first exception member.
func (u *UseCase) pickMembers(zr *zip.Reader) (messageBody, exceptionBody string, err error) {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		kind := u.classifier.Classify(f.Name)
		if kind == model.MemberKindUnknown {
			continue
		}
		if kind == model.MemberKindMessage && messageBody != "" {
			continue
		}
		if kind == model.MemberKindException && exceptionBody != "" {
			continue
		}

		body, err := readMember(f)
		if err != nil {
			return "", "", err
		}
		if strings.TrimSpace(body) == "" {
			continue
		}

		switch kind {
		case model.MemberKindMessage:
			messageBody = body
		case model.MemberKindException:
			exceptionBody = body
		}

		if messageBody != "" && exceptionBody != "" {
			break
		}
	}

	return messageBody, exceptionBody, nil
}

func (u *UseCase) notifyException(ctx context.Context, source string, out *exception.RecordOutput) (model.NotificationID, bool, error) {
	kind := "new"
	if out.IsDuplicate {
		kind = "duplicate"
	}

	decision, err := u.pol.Decide(ctx, &policy.Input{
		Type:          kind,
		Message:       out.Record.Message,
		SourceArchive: source,
		Occurrences:   out.Occurrences,
	})
	if err != nil {
		return "", false, err
	}
	if !decision.Notify {
		return "", false, nil
	}

	var notification *model.Notification
	if out.IsDuplicate {
		notification = model.NewDuplicateExceptionNotification(source, out.Record)
	} else {
		notification = model.NewExceptionNotification(source, out.Record)
	}
	if decision.Title != "" {
		notification.Title = decision.Title
	}
	if decision.Message != "" {
		notification.Message = decision.Message
	}

	id, err := u.notifier.Notify(ctx, notification)
	if err != nil {
		return "", false, err
	}

	return id, true, nil
}

func readMember(f *zip.File) (string, error) {
	if f.UncompressedSize64 > maxMemberSize {
		return "", goerr.New("archive member too large",
			goerr.V("name", f.Name), goerr.V("size", f.UncompressedSize64), goerr.T(model.TagInvalidRequest))
	}

	rc, err := f.Open()
	if err != nil {
		return "", goerr.Wrap(err, "failed to open archive member", goerr.V("name", f.Name), goerr.T(model.TagInvalidRequest))
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read archive member", goerr.V("name", f.Name), goerr.T(model.TagInvalidRequest))
	}
	if len(body) > maxMemberSize {
		return "", goerr.New("archive member too large", goerr.V("name", f.Name), goerr.T(model.TagInvalidRequest))
	}

	return string(body), nil
}
