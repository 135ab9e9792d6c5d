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

// Package msgpack provides MessagePack parsing support for rivaas.dev/payload,
// using github.com/vmihailenco/msgpack/v5.
//
// The content type gate rejects MessagePack by default; pair the parser with
// the [Accept] predicate:
//
//	type Event struct {
//	    ID   string `msgpack:"id"`
//	    Kind string `msgpack:"kind"`
//	}
//
//	event, err := payload.FromRequest(r, msgpack.New[Event](),
//	    payload.WithContentType(msgpack.Accept))
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"rivaas.dev/payload"
)

// Accept reports whether mt names a MessagePack media type
// (application/msgpack, application/x-msgpack, or a +msgpack suffix).
// Use with payload.WithContentType to admit MessagePack bodies through the gate.
func Accept(mt payload.MediaType) bool {
	return mt.Subtype == "msgpack" || mt.Subtype == "x-msgpack" || mt.Suffix == "msgpack"
}

// Option configures MessagePack parsing behavior.
type Option func(*config)

// config holds MessagePack-specific parsing configuration.
type config struct {
	validator       payload.Validator
	disallowUnknown bool
}

// WithValidator integrates external validation.
// The validator is called after successful parsing.
func WithValidator(v payload.Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithDisallowUnknownFields enables strict parsing: fields in the document
// that do not map to a field on the target type cause an error.
func WithDisallowUnknownFields() Option {
	return func(c *config) {
		c.disallowUnknown = true
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Parser parses MessagePack bytes into T. It implements the payload.Parser
// capability and is safe for concurrent use.
type Parser[T any] struct {
	cfg *config
}

// New creates a [Parser] with the given options.
//
// Example:
//
//	parser := msgpack.New[Event](msgpack.WithDisallowUnknownFields())
func New[T any](opts ...Option) *Parser[T] {
	return &Parser[T]{cfg: applyOptions(opts)}
}

// Parse decodes MessagePack bytes into T.
func (p *Parser[T]) Parse(body []byte) (T, error) {
	var v T

	decoder := msgpack.NewDecoder(bytes.NewReader(body))
	if p.cfg.disallowUnknown {
		decoder.DisallowUnknownFields(true)
	}
	if err := decoder.Decode(&v); err != nil {
		var zero T
		return zero, err
	}

	if p.cfg.validator != nil {
		if err := p.cfg.validator.Validate(&v); err != nil {
			var zero T
			return zero, fmt.Errorf("validation failed: %w", err)
		}
	}

	return v, nil
}

// Msgpack decodes MessagePack bytes to type T in one call.
//
// Example:
//
//	event, err := msgpack.Msgpack[Event](body)
func Msgpack[T any](body []byte, opts ...Option) (T, error) {
	return New[T](opts...).Parse(body)
}
