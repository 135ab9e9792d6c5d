// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schema provides the default schema parser for rivaas.dev/payload.
//
// A [Model] turns a completed JSON body into a typed, constraint-checked
// value: encoding/json decoding followed by struct tag validation via
// github.com/go-playground/validator/v10, optionally preceded by JSON Schema
// validation of the raw document (github.com/santhosh-tekuri/jsonschema/v6).
//
// Example:
//
//	type CreateUserRequest struct {
//	    Name string `json:"name" validate:"required,min=1,max=10"`
//	}
//
//	parser := schema.MustNew[CreateUserRequest]()
//
//	user, err := payload.FromRequest(r, parser)
//
// Validation failures are reported as an [*Error] carrying one [FieldError]
// per violated rule, with stable codes and JSON paths.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Option configures a [Model].
type Option func(*config)

// config holds model configuration.
type config struct {
	disallowUnknown bool
	useNumber       bool
	skipTags        bool
	schemaJSON      string
	maxErrors       int
}

// WithDisallowUnknownFields rejects documents containing fields not defined
// on the target type.
func WithDisallowUnknownFields() Option {
	return func(c *config) {
		c.disallowUnknown = true
	}
}

// WithUseNumber decodes numbers as json.Number instead of float64 in any
// interface-typed fields.
func WithUseNumber() Option {
	return func(c *config) {
		c.useNumber = true
	}
}

// WithoutTagValidation disables struct tag validation, leaving only JSON
// decoding (and JSON Schema validation, if configured).
func WithoutTagValidation() Option {
	return func(c *config) {
		c.skipTags = true
	}
}

// WithJSONSchema validates the raw document against a JSON Schema before
// decoding. The schema is compiled once at model construction.
//
// Example:
//
//	parser, err := schema.New[Event](schema.WithJSONSchema(`{
//	    "type": "object",
//	    "required": ["name"],
//	    "properties": {"name": {"type": "string", "maxLength": 10}}
//	}`))
func WithJSONSchema(schemaJSON string) Option {
	return func(c *config) {
		c.schemaJSON = schemaJSON
	}
}

// WithMaxErrors caps the number of field errors collected per parse.
// Zero (the default) means no cap.
func WithMaxErrors(n int) Option {
	return func(c *config) {
		c.maxErrors = n
	}
}

// Model parses JSON bytes into T and validates the result. It implements
// the payload.Parser capability: Parse is a pure function of its input and
// safe for concurrent use.
//
// Use [New] or [MustNew] to construct one, typically once per route.
type Model[T any] struct {
	cfg          *config
	tagValidator *validator.Validate
	jsonSchema   *jsonschema.Schema
	isStruct     bool
}

// New creates a [Model] with the given options.
// Returns an error if a configured JSON Schema fails to compile.
func New[T any](opts ...Option) (*Model[T], error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Model[T]{cfg: cfg}

	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	m.isStruct = t.Kind() == reflect.Struct

	if !cfg.skipTags && m.isStruct {
		m.tagValidator = newTagValidator()
	}

	if cfg.schemaJSON != "" {
		compiled, err := compileSchema(cfg.schemaJSON)
		if err != nil {
			return nil, err
		}
		m.jsonSchema = compiled
	}

	return m, nil
}

// MustNew creates a [Model] with the given options.
// Panics if configuration is invalid.
//
// Use in main() or init() where panic on startup is acceptable.
func MustNew[T any](opts ...Option) *Model[T] {
	m, err := New[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("schema: invalid model: %v", err))
	}

	return m
}

// Parse implements payload.Parser: decode, then validate.
//
// Errors:
//   - [*Error]: JSON Schema or struct tag validation failure, one
//     [FieldError] per violated rule
//   - json decode errors are wrapped as an [*Error] with code "json.decode"
func (m *Model[T]) Parse(body []byte) (T, error) {
	var v T

	if m.jsonSchema != nil {
		if err := m.validateSchema(body); err != nil {
			return v, err
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	if m.cfg.disallowUnknown {
		decoder.DisallowUnknownFields()
	}
	if m.cfg.useNumber {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&v); err != nil {
		return v, &Error{Fields: []FieldError{{
			Code:    "json.decode",
			Message: err.Error(),
		}}}
	}

	if m.tagValidator != nil {
		if err := m.validateTags(&v); err != nil {
			var zero T
			return zero, err
		}
	}

	return v, nil
}

// newTagValidator builds the go-playground/validator instance, using json
// tag names in error paths.
func newTagValidator() *validator.Validate {
	tv := validator.New(validator.WithRequiredStructEnabled())
	tv.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "-" {
			return ""
		}
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name == "" {
			return fld.Name
		}

		return name
	})

	return tv
}

// validateTags runs struct tag validation and formats failures with stable
// codes and JSON paths.
func (m *Model[T]) validateTags(v *T) error {
	err := m.tagValidator.Struct(v)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: []FieldError{{Code: "tag_error", Message: err.Error()}}}
	}

	var result Error
	for _, e := range validationErrs {
		// Strip the top struct name from the namespace.
		path := e.Namespace()
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}

		result.Add(path, "tag."+e.Tag(), tagErrorMessage(e), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
			"value": fmt.Sprint(e.Value()),
		})

		if m.cfg.maxErrors > 0 && len(result.Fields) >= m.cfg.maxErrors {
			result.Truncated = true
			break
		}
	}

	result.Sort()
	return &result
}

// tagErrorMessage maps common validator tags to human-readable messages.
func tagErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
