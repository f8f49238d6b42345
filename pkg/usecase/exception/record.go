package exception

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// RecordInput is a request to register one exception occurrence
type RecordInput struct {
	Message       string
	SourceArchive string
}

// RecordOutput reports the registered occurrence
type RecordOutput struct {
	Fingerprint model.Fingerprint      `json:"fingerprint"`
	Occurrences int64                  `json:"occurrences"`
	IsDuplicate bool                   `json:"is_duplicate"`
	Record      *model.ExceptionRecord `json:"record,omitempty"`
}

// Record registers one occurrence of an exception. The occurrence counter is
// incremented atomically; the first sighting returns IsDuplicate=false with
// a count of 1.
func (u *UseCase) Record(ctx context.Context, input *RecordInput) (*RecordOutput, error) {
	if input.Message == "" {
		return nil, goerr.New("message is required", goerr.T(model.TagInvalidRequest))
	}
	if input.SourceArchive == "" {
		return nil, goerr.New("source archive is required", goerr.T(model.TagInvalidRequest))
	}

	rec, err := u.repo.RecordOccurrence(ctx, input.Message, input.SourceArchive, time.Now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record occurrence")
	}

	logging.From(ctx).Debug("recorded exception occurrence",
		"fingerprint", rec.Fingerprint, "occurrences", rec.Occurrences)

	return &RecordOutput{
		Fingerprint: rec.Fingerprint,
		Occurrences: rec.Occurrences,
		IsDuplicate: rec.IsDuplicate(),
		Record:      rec,
	}, nil
}
