package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const resourceURL = "stepper://metadata.schema.json"

// JSONSchema validates metadata against a compiled JSON Schema document.
type JSONSchema struct {
	compiled *jsonschema.Schema
	printer  *message.Printer
}

// CompileJSON compiles a schema document given as decoded JSON (for example a
// map read from a YAML or TOML definition file).
func CompileJSON(doc any) (*JSONSchema, error) {
	normalized, err := normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("schema document: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, normalized); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &JSONSchema{
		compiled: compiled,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// CompileJSONBytes compiles a schema document given as raw JSON.
func CompileJSONBytes(data []byte) (*JSONSchema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema document: %w", err)
	}
	return CompileJSON(doc)
}

// Validate implements Schema. JSON Schema validation never blocks, so the
// outcome is always ready.
func (s *JSONSchema) Validate(_ context.Context, value any) Outcome {
	instance, err := normalize(value)
	if err != nil {
		return Ready(Result{Issues: []Issue{{Message: "value is not representable as JSON: " + err.Error()}}})
	}

	err = s.compiled.Validate(instance)
	if err == nil {
		return Ready(Result{Value: value})
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Ready(Result{Issues: []Issue{{Message: err.Error()}}})
	}
	return Ready(Result{Issues: s.issues(verr, nil)})
}

// issues flattens the cause tree into its leaves.
func (s *JSONSchema) issues(verr *jsonschema.ValidationError, acc []Issue) []Issue {
	if len(verr.Causes) == 0 {
		return append(acc, Issue{
			Message: verr.ErrorKind.LocalizedString(s.printer),
			Path:    append([]string(nil), verr.InstanceLocation...),
		})
	}
	for _, cause := range verr.Causes {
		acc = s.issues(cause, acc)
	}
	return acc
}

// normalize converts v into the representation the validator expects
// (json.Number for numbers, map[string]any for objects).
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

var _ Schema = (*JSONSchema)(nil)
