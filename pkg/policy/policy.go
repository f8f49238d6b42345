package policy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
)

// Input is the document handed to the notification policy for one recorded
// exception.
type Input struct {
	Type          string `json:"type"` // "new" or "duplicate"
	Message       string `json:"message"`
	SourceArchive string `json:"source_archive"`
	Occurrences   int64  `json:"occurrences"`
}

// Decision is the policy verdict. Empty Title/Message mean the caller keeps
// its defaults.
type Decision struct {
	Notify  bool
	Title   string
	Message string
}

// Policy decides whether a recorded exception produces a notification.
// Without any Rego policy the built-in rule applies: notify only on
// duplicates, store new exceptions silently.
type Policy struct {
	query *rego.PreparedEvalQuery
}

// Load reads all .rego files from dir and prepares the data.notify query.
// An empty dir (or no matching files) yields a Policy using the built-in
// default rule.
func Load(ctx context.Context, dir string) (*Policy, error) {
	if dir == "" {
		return &Policy{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files", goerr.V("dir", dir))
	}
	if len(files) == 0 {
		return &Policy{}, nil
	}

	options := make([]func(*rego.Rego), 0, len(files)+1)
	options = append(options, rego.Query("data.notify"))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare notify query")
	}

	return &Policy{query: &prepared}, nil
}

// Decide evaluates the policy for one exception occurrence.
func (p *Policy) Decide(ctx context.Context, input *Input) (*Decision, error) {
	if p == nil || p.query == nil {
		return &Decision{Notify: input.Type == "duplicate"}, nil
	}

	rs, err := p.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate notify policy")
	}

	// An empty result set means the policy defines no notify document;
	// treat it as a refusal rather than falling back to the default rule.
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return &Decision{}, nil
	}

	doc, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return nil, goerr.New("notify policy result is not an object", goerr.V("value", rs[0].Expressions[0].Value))
	}

	decision := &Decision{}
	if v, ok := doc["notify"].(bool); ok {
		decision.Notify = v
	}
	if v, ok := doc["title"].(string); ok {
		decision.Title = v
	}
	if v, ok := doc["message"].(string); ok {
		decision.Message = v
	}

	return decision, nil
}
