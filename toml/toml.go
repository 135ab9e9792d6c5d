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

// Package toml provides TOML parsing support for rivaas.dev/payload,
// using github.com/BurntSushi/toml.
//
// The content type gate rejects TOML by default; pair the parser with the
// [Accept] predicate:
//
//	type Config struct {
//	    Name string `toml:"name"`
//	    Port int    `toml:"port"`
//	}
//
//	config, err := payload.FromRequest(r, toml.New[Config](),
//	    payload.WithContentType(toml.Accept))
package toml

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"rivaas.dev/payload"
)

// Accept reports whether mt names a TOML media type
// (application/toml, text/toml, or a +toml suffix).
// Use with payload.WithContentType to admit TOML bodies through the gate.
func Accept(mt payload.MediaType) bool {
	return mt.Subtype == "toml" || mt.Suffix == "toml"
}

// Option configures TOML parsing behavior.
type Option func(*config)

// config holds TOML-specific parsing configuration.
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

// WithDisallowUnknownKeys enables strict parsing: keys in the document that
// do not map to a field on the target type cause an error.
func WithDisallowUnknownKeys() Option {
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

// Parser parses TOML bytes into T. It implements the payload.Parser
// capability and is safe for concurrent use.
type Parser[T any] struct {
	cfg *config
}

// New creates a [Parser] with the given options.
//
// Example:
//
//	parser := toml.New[Config](toml.WithDisallowUnknownKeys())
func New[T any](opts ...Option) *Parser[T] {
	return &Parser[T]{cfg: applyOptions(opts)}
}

// Parse decodes TOML bytes into T.
func (p *Parser[T]) Parse(body []byte) (T, error) {
	var v T

	meta, err := toml.Decode(string(body), &v)
	if err != nil {
		var zero T
		return zero, err
	}

	if p.cfg.disallowUnknown {
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}

			var zero T
			return zero, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	}

	if p.cfg.validator != nil {
		if err := p.cfg.validator.Validate(&v); err != nil {
			var zero T
			return zero, fmt.Errorf("validation failed: %w", err)
		}
	}

	return v, nil
}

// TOML decodes TOML bytes to type T in one call.
//
// Example:
//
//	config, err := toml.TOML[Config](body)
func TOML[T any](body []byte, opts ...Option) (T, error) {
	return New[T](opts...).Parse(body)
}
