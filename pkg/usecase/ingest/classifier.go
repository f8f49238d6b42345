package ingest

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"gopkg.in/yaml.v3"
)

// LoadClassifier reads member name hints from a YAML file:
//
//	message:
//	  - message
//	  - support
//	exception:
//	  - exception
//	  - error
//	  - log
//
// An empty path returns the built-in defaults.
func LoadClassifier(path string) (*model.Classifier, error) {
	if path == "" {
		return model.DefaultClassifier(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read classifier config", goerr.V("path", path))
	}

	var classifier model.Classifier
	if err := yaml.Unmarshal(data, &classifier); err != nil {
		return nil, goerr.Wrap(err, "failed to parse classifier config", goerr.V("path", path))
	}

	if len(classifier.MessageHints) == 0 || len(classifier.ExceptionHints) == 0 {
		return nil, goerr.New("classifier config needs both message and exception hints", goerr.V("path", path))
	}

	return &classifier, nil
}
