package model

import "strings"

// MemberKind classifies a member file of an uploaded archive by its name.
type MemberKind string

const (
	MemberKindMessage   MemberKind = "message"
	MemberKindException MemberKind = "exception"
	MemberKindUnknown   MemberKind = "unknown"
)

// Classifier decides what an archive member carries, by case-insensitive
// substring match of its name against the hint sets. Message hints are
// checked first, so a name matching both sets is a message.
type Classifier struct {
	MessageHints   []string `yaml:"message"`
	ExceptionHints []string `yaml:"exception"`
}

// DefaultClassifier returns the built-in hint sets.
func DefaultClassifier() *Classifier {
	return &Classifier{
		MessageHints:   []string{"message", "support"},
		ExceptionHints: []string{"exception", "error", "log"},
	}
}

// Classify returns the kind of the named member.
func (x *Classifier) Classify(name string) MemberKind {
	lower := strings.ToLower(name)
	for _, hint := range x.MessageHints {
		if strings.Contains(lower, hint) {
			return MemberKindMessage
		}
	}
	for _, hint := range x.ExceptionHints {
		if strings.Contains(lower, hint) {
			return MemberKindException
		}
	}
	return MemberKindUnknown
}
