package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/ingest"
)

func TestLoadClassifierDefault(t *testing.T) {
	classifier, err := ingest.LoadClassifier("")
	gt.NoError(t, err)
	gt.Equal(t, classifier.Classify("message.txt"), model.MemberKindMessage)
	gt.Equal(t, classifier.Classify("error.log"), model.MemberKindException)
}

func TestLoadClassifierFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yml")
	config := `message:
  - ticket
exception:
  - crash
  - panic
`
	gt.NoError(t, os.WriteFile(path, []byte(config), 0600))

	classifier, err := ingest.LoadClassifier(path)
	gt.NoError(t, err)
	gt.Equal(t, classifier.Classify("ticket-123.txt"), model.MemberKindMessage)
	gt.Equal(t, classifier.Classify("PANIC.txt"), model.MemberKindException)
	gt.Equal(t, classifier.Classify("message.txt"), model.MemberKindUnknown)
}

func TestLoadClassifierRejectsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yml")
	config := `message:
  - ticket
`
	gt.NoError(t, os.WriteFile(path, []byte(config), 0600))

	_, err := ingest.LoadClassifier(path)
	gt.Error(t, err)
}

func TestLoadClassifierMissingFile(t *testing.T) {
	_, err := ingest.LoadClassifier(filepath.Join(t.TempDir(), "nope.yml"))
	gt.Error(t, err)
}
