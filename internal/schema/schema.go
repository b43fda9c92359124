// Package schema wraps the external schema-validation collaborator. The
// structural validator delegates its first check here; a schema failure is
// the one finding that aborts the whole validation run.
package schema

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks a decoded document against an interchange schema.
type Validator interface {
	Validate(doc any) error
}

// Error reports schema non-conformance. Validation treats it as fatal.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("document failed schema validation: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// JSONSchema validates documents against a compiled JSON Schema.
type JSONSchema struct {
	compiled *jsonschema.Schema
}

// CompileFile compiles the schema at path, following any $ref resolution
// relative to it.
func CompileFile(path string) (*JSONSchema, error) {
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return &JSONSchema{compiled: compiled}, nil
}

// Validate checks doc and wraps any non-conformance in *Error.
func (s *JSONSchema) Validate(doc any) error {
	if err := s.compiled.Validate(doc); err != nil {
		return &Error{Err: err}
	}
	return nil
}

type acceptAll struct{}

func (acceptAll) Validate(any) error { return nil }

// AcceptAll returns a validator that accepts every document. It is the
// default when no schema is configured.
func AcceptAll() Validator { return acceptAll{} }
