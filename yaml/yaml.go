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

// Package yaml provides YAML parsing support for rivaas.dev/payload,
// using gopkg.in/yaml.v3.
//
// The content type gate rejects YAML by default; pair the parser with the
// [Accept] predicate:
//
//	type Config struct {
//	    Name  string `yaml:"name"`
//	    Port  int    `yaml:"port"`
//	    Debug bool   `yaml:"debug"`
//	}
//
//	config, err := payload.FromRequest(r, yaml.New[Config](),
//	    payload.WithContentType(yaml.Accept))
package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"rivaas.dev/payload"
)

// Accept reports whether mt names a YAML media type
// (application/yaml, application/x-yaml, text/yaml, or a +yaml suffix).
// Use with payload.WithContentType to admit YAML bodies through the gate.
func Accept(mt payload.MediaType) bool {
	return mt.Subtype == "yaml" || mt.Subtype == "x-yaml" || mt.Suffix == "yaml"
}

// Option configures YAML parsing behavior.
type Option func(*config)

// config holds YAML-specific parsing configuration.
type config struct {
	validator   payload.Validator
	knownFields bool
}

// WithValidator integrates external validation.
// The validator is called after successful parsing.
func WithValidator(v payload.Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithKnownFields enables strict parsing: unknown fields cause an error.
func WithKnownFields() Option {
	return func(c *config) {
		c.knownFields = true
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Parser parses YAML bytes into T. It implements the payload.Parser
// capability and is safe for concurrent use.
type Parser[T any] struct {
	cfg *config
}

// New creates a [Parser] with the given options.
//
// Example:
//
//	parser := yaml.New[Config](yaml.WithKnownFields())
func New[T any](opts ...Option) *Parser[T] {
	return &Parser[T]{cfg: applyOptions(opts)}
}

// Parse decodes YAML bytes into T.
func (p *Parser[T]) Parse(body []byte) (T, error) {
	var v T

	if p.cfg.knownFields {
		decoder := yaml.NewDecoder(bytes.NewReader(body))
		decoder.KnownFields(true)
		if err := decoder.Decode(&v); err != nil {
			var zero T
			return zero, err
		}
	} else {
		if err := yaml.Unmarshal(body, &v); err != nil {
			var zero T
			return zero, err
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

// YAML decodes YAML bytes to type T in one call.
//
// Example:
//
//	config, err := yaml.YAML[Config](body)
func YAML[T any](body []byte, opts ...Option) (T, error) {
	return New[T](opts...).Parse(body)
}
