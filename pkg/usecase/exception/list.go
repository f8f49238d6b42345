package exception

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

// ListOutput holds the full unique exception set in first-observed order
type ListOutput struct {
	Total      int                      `json:"total"`
	Exceptions []*model.ExceptionRecord `json:"exceptions"`
}

// List retrieves every known exception record
func (u *UseCase) List(ctx context.Context) (*ListOutput, error) {
	records, err := u.repo.ListExceptions(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list exceptions")
	}

	return &ListOutput{
		Total:      len(records),
		Exceptions: records,
	}, nil
}
