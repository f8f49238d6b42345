package exception

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

// SearchOutput is the result of an exact-match search. MatchCount is 0 or 1;
// the fingerprint either exists or it does not.
type SearchOutput struct {
	MatchCount  int                      `json:"match_count"`
	IsDuplicate bool                     `json:"is_duplicate"`
	Occurrences int64                    `json:"occurrences"`
	Matches     []*model.ExceptionRecord `json:"matches"`
}

// Search looks up the exception matching the query text. The query is
// normalized and fingerprinted exactly like a recorded message, so only an
// exact (post-normalization) match hits. An unknown query is a successful
// empty result, not an error.
func (u *UseCase) Search(ctx context.Context, query string) (*SearchOutput, error) {
	if query == "" {
		return nil, goerr.New("query is required", goerr.T(model.TagInvalidRequest))
	}

	rec, err := u.repo.GetException(ctx, model.NewFingerprint(query))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to lookup exception")
	}

	if rec == nil {
		return &SearchOutput{Matches: []*model.ExceptionRecord{}}, nil
	}

	return &SearchOutput{
		MatchCount:  1,
		IsDuplicate: rec.IsDuplicate(),
		Occurrences: rec.Occurrences,
		Matches:     []*model.ExceptionRecord{rec},
	}, nil
}
