// Package lint validates template JSON files against the save payload
// schema, so bulk-authored templates can be checked before they ever reach
// the backend.
package lint

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// templateSchema mirrors the POST /templates payload: every field the
// backend requires, with the same constraints the form enforces.
const templateSchema = `{
	"type": "object",
	"required": [
		"grade", "topic", "skill_name", "format", "type",
		"question_template", "answer_template", "created_by", "updated_by"
	],
	"properties": {
		"grade":             {"type": "integer", "minimum": 1},
		"topic":             {"type": "string", "minLength": 1},
		"skill_name":        {"type": "string", "minLength": 1},
		"format":            {"type": "integer", "minimum": 1},
		"type":              {"enum": ["MCQ", "MAQ", "FIB", "TF"]},
		"question_template": {"type": "string", "minLength": 1},
		"answer_template":   {"type": "string", "minLength": 1},
		"created_by":        {"type": "string", "minLength": 1},
		"updated_by":        {"type": "string", "minLength": 1}
	},
	"additionalProperties": false
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal([]byte(templateSchema), &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://template.json"
		if err := c.AddResource(url, parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// Issue is one validation finding in one file.
type Issue struct {
	File    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.File, i.Message)
}

// ValidateBytes checks one template document. The returned issues are
// empty for a valid document; a non-nil error means the check itself
// could not run.
func ValidateBytes(file string, data []byte) ([]Issue, error) {
	s, err := schema()
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return []Issue{{File: file, Message: "invalid JSON: " + err.Error()}}, nil
	}

	if err := s.Validate(parsed); err != nil {
		return []Issue{{File: file, Message: err.Error()}}, nil
	}
	return nil, nil
}

// ValidateFiles checks each path and aggregates the findings.
func ValidateFiles(paths []string) ([]Issue, error) {
	var issues []Issue
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		found, err := ValidateBytes(path, data)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}
