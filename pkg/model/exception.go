package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Fingerprint is a deterministic digest identifying a normalized exception
// message. Two messages that normalize identically share one fingerprint and
// therefore one occurrence counter.
type Fingerprint string

// Normalize lower-cases and trims leading/trailing whitespace. This is an
// exact-match policy: no tokenization and no inner whitespace collapsing.
// Duplicate-count semantics depend on this staying narrow and deterministic.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// NewFingerprint computes the fingerprint of an exception message. Stable
// across processes and restarts: sha256 of the normalized text, hex encoded.
func NewFingerprint(message string) Fingerprint {
	sum := sha256.Sum256([]byte(Normalize(message)))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// ExceptionRecord holds the most recently observed occurrence of a
// fingerprint. Repeated sightings overwrite Message, SourceArchive and
// ObservedAt in place and increment Occurrences; FirstSeenAt keeps the
// insertion position for ordered enumeration.
type ExceptionRecord struct {
	Fingerprint   Fingerprint `json:"fingerprint"`
	Message       string      `json:"message"`
	SourceArchive string      `json:"source_archive"`
	ObservedAt    time.Time   `json:"observed_at"`
	FirstSeenAt   time.Time   `json:"first_seen_at"`
	Occurrences   int64       `json:"occurrences"`
}

// IsDuplicate reports whether this record has been seen more than once.
func (x *ExceptionRecord) IsDuplicate() bool {
	return x.Occurrences > 1
}
