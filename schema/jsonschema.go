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

package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compileSchema compiles a JSON Schema from a JSON string.
func compileSchema(schemaJSON string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()  // Enable format validation
	compiler.AssertContent() // Enable content validation

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	const schemaURL = "schema.json"
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return compiled, nil
}

// validateSchema validates the raw document against the compiled JSON Schema.
func (m *Model[T]) validateSchema(body []byte) error {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return &Error{Fields: []FieldError{{Code: "json.decode", Message: err.Error()}}}
	}

	err := m.jsonSchema.Validate(data)
	if err == nil {
		return nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Error{Fields: []FieldError{{Code: "schema_error", Message: err.Error()}}}
	}

	var result Error
	m.collectSchemaErrors(verr, &result)
	result.Sort()

	return &result
}

// collectSchemaErrors recursively flattens the validation error tree into
// [FieldError] values with stable codes.
func (m *Model[T]) collectSchemaErrors(verr *jsonschema.ValidationError, result *Error) {
	if verr == nil {
		return
	}

	field := strings.Join(verr.InstanceLocation, ".")

	// ErrorKind is an interface in v6, use fmt.Sprintf to get string representation
	errorKind := fmt.Sprintf("%v", verr.ErrorKind)
	code := "schema." + errorKind

	// Leaf errors carry the meaningful message
	if len(verr.Causes) == 0 {
		result.Add(field, code, verr.Error(), map[string]any{
			"kind":       errorKind,
			"schema_url": verr.SchemaURL,
		})

		if m.cfg.maxErrors > 0 && len(result.Fields) >= m.cfg.maxErrors {
			result.Truncated = true
			return
		}
	}

	for _, cause := range verr.Causes {
		if m.cfg.maxErrors > 0 && len(result.Fields) >= m.cfg.maxErrors {
			result.Truncated = true
			return
		}
		m.collectSchemaErrors(cause, result)
	}
}
