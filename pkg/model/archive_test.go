package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/model"
)

func TestClassifyMemberName(t *testing.T) {
	c := model.DefaultClassifier()

	testCases := []struct {
		name     string
		expected model.MemberKind
	}{
		{"message.txt", model.MemberKindMessage},
		{"SUPPORT_request.md", model.MemberKindMessage},
		{"dump/exception.txt", model.MemberKindException},
		{"app-ERROR-2024.txt", model.MemberKindException},
		{"server.log", model.MemberKindException},
		{"readme.txt", model.MemberKindUnknown},
		{"data.bin", model.MemberKindUnknown},
		// Matching both sets resolves to message, hints are checked in order
		{"support_error.txt", model.MemberKindMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, c.Classify(tc.name), tc.expected)
		})
	}
}

func TestClassifierCustomHints(t *testing.T) {
	c := &model.Classifier{
		MessageHints:   []string{"note"},
		ExceptionHints: []string{"crash"},
	}

	gt.Equal(t, c.Classify("my-note.txt"), model.MemberKindMessage)
	gt.Equal(t, c.Classify("CRASH_report.txt"), model.MemberKindException)
	gt.Equal(t, c.Classify("message.txt"), model.MemberKindUnknown)
}
