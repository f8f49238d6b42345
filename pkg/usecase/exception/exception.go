package exception

import (
	"github.com/m-mizutani/harrier/pkg/repository"
)

// UseCase provides the exception registry operations: record, search and
// list. Validation happens here; all storage semantics live in the
// repository.
type UseCase struct {
	repo repository.Repository
}

// New creates a new exception UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}
