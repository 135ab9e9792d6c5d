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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSchema is a sentinel error for schema failures.
// Use errors.Is(err, ErrSchema) to check if an error came from this package.
var ErrSchema = errors.New("schema")

// FieldError represents a single failure for a specific field.
// Multiple FieldError values are collected in an [Error].
//
// Example:
//
//	err := FieldError{
//	    Path:    "name",
//	    Code:    "tag.required",
//	    Message: "is required",
//	    Meta:    map[string]any{"tag": "required"},
//	}
type FieldError struct {
	Path    string         `json:"path"`           // JSON path (e.g., "items.2.price")
	Code    string         `json:"code"`           // Stable code (e.g., "tag.required", "schema.type")
	Message string         `json:"message"`        // Human-readable message
	Meta    map[string]any `json:"meta,omitempty"` // Additional metadata (tag, param, value, etc.)
}

// Error returns a formatted message as "path: message" or just "message" if
// path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrSchema] for errors.Is/errors.As compatibility.
func (e FieldError) Unwrap() error {
	return ErrSchema
}

// Error represents schema failures for one or more fields.
// Error implements error and can be used with errors.Is/errors.As.
//
// Example:
//
//	var schemaErr *schema.Error
//	if errors.As(err, &schemaErr) {
//	    for _, fieldErr := range schemaErr.Fields {
//	        fmt.Printf("%s: %s\n", fieldErr.Path, fieldErr.Message)
//	    }
//	}
//
//nolint:recvcheck // Error must use value receiver for error interface compatibility, mutating methods use pointer
type Error struct {
	Fields    []FieldError `json:"errors"`              // List of field errors
	Truncated bool         `json:"truncated,omitempty"` // True if errors were capped by WithMaxErrors
}

// Error returns a formatted error message.
func (v Error) Error() string {
	if len(v.Fields) == 0 {
		return ""
	}
	if len(v.Fields) == 1 {
		return v.Fields[0].Error()
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}

	var msgs []string
	for _, err := range v.Fields {
		msgs = append(msgs, err.Error())
	}

	return fmt.Sprintf("schema failed: %s%s", strings.Join(msgs, "; "), suffix)
}

// Unwrap returns [ErrSchema] for errors.Is/errors.As compatibility.
func (v Error) Unwrap() error {
	return ErrSchema
}

// Details implements rivaas.dev/errors.ErrorDetails.
func (v Error) Details() any {
	return v.Fields
}

// Code implements rivaas.dev/errors.ErrorCode.
func (v Error) Code() string {
	return "schema_error"
}

// Add adds a new [FieldError] to the collection.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{
		Path:    path,
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// HasErrors returns true if there are any errors.
func (v Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// HasCode returns true if any error has the given code.
func (v Error) HasCode(code string) bool {
	for _, e := range v.Fields {
		if e.Code == code {
			return true
		}
	}

	return false
}

// Has checks if a specific field path has an error.
func (v Error) Has(path string) bool {
	for _, f := range v.Fields {
		if f.Path == path {
			return true
		}
	}

	return false
}

// GetField returns the first [FieldError] for a given path, or nil if not
// found.
func (v Error) GetField(path string) *FieldError {
	for _, f := range v.Fields {
		if f.Path == path {
			return &f
		}
	}

	return nil
}

// Sort sorts errors by path, then by code, for consistent presentation.
func (v *Error) Sort() {
	sort.Slice(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}

		return v.Fields[i].Code < v.Fields[j].Code
	})
}
