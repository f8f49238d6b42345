package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across service boundaries. Callers branch on
// tags, not on message text.
var (
	// TagInvalidRequest marks client-caused validation failures. Never retryable.
	TagInvalidRequest = goerr.NewTag("invalid_request")

	// TagStorageUnavailable marks backing store failures. The store never
	// converts these into a default answer; callers decide whether to retry.
	TagStorageUnavailable = goerr.NewTag("storage_unavailable")
)
