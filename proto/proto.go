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

// Package proto provides Protocol Buffers parsing support for
// rivaas.dev/payload, using google.golang.org/protobuf.
//
// The content type gate rejects Protocol Buffers by default; pair the parser
// with the [Accept] predicate:
//
//	// message User {
//	//     string name = 1;
//	// }
//
//	user, err := payload.FromRequest(r, proto.New[*pb.User](),
//	    payload.WithContentType(proto.Accept))
package proto

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"rivaas.dev/payload"
)

// Message is an alias for proto.Message to simplify imports.
type Message = proto.Message

// Accept reports whether mt names a Protocol Buffers media type
// (application/protobuf, application/x-protobuf, or a +proto suffix).
// Use with payload.WithContentType to admit Protocol Buffers bodies through
// the gate.
func Accept(mt payload.MediaType) bool {
	return mt.Subtype == "protobuf" || mt.Subtype == "x-protobuf" || mt.Suffix == "proto"
}

// Option configures Protocol Buffers parsing behavior.
type Option func(*config)

// config holds Proto-specific parsing configuration.
type config struct {
	validator      payload.Validator
	allowPartial   bool
	discardUnknown bool
	recursionLimit int
}

// WithValidator integrates external validation.
// The validator is called after successful parsing.
func WithValidator(v payload.Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithAllowPartial allows messages that have missing required fields to
// unmarshal without returning an error.
func WithAllowPartial() Option {
	return func(c *config) {
		c.allowPartial = true
	}
}

// WithDiscardUnknown specifies whether to ignore unknown fields when
// unmarshaling.
func WithDiscardUnknown() Option {
	return func(c *config) {
		c.discardUnknown = true
	}
}

// WithRecursionLimit sets the maximum recursion depth for unmarshaling.
// The default limit is 10000.
func WithRecursionLimit(limit int) Option {
	return func(c *config) {
		c.recursionLimit = limit
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		recursionLimit: 10000, // default
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func (c *config) toUnmarshalOptions() proto.UnmarshalOptions {
	return proto.UnmarshalOptions{
		AllowPartial:   c.allowPartial,
		DiscardUnknown: c.discardUnknown,
		RecursionLimit: c.recursionLimit,
	}
}

// Parser parses Protocol Buffers bytes into T. T must be a pointer to a
// generated message type. Parser implements the payload.Parser capability
// and is safe for concurrent use.
type Parser[T Message] struct {
	cfg *config
}

// New creates a [Parser] with the given options.
//
// Example:
//
//	parser := proto.New[*pb.User](proto.WithDiscardUnknown())
func New[T Message](opts ...Option) *Parser[T] {
	return &Parser[T]{cfg: applyOptions(opts)}
}

// Parse decodes Protocol Buffers bytes into a fresh T.
func (p *Parser[T]) Parse(body []byte) (T, error) {
	// T is a pointer to a message; allocate through protoreflect.
	var zero T
	result := zero.ProtoReflect().New().Interface().(T)

	unmarshalOpts := p.cfg.toUnmarshalOptions()
	if err := unmarshalOpts.Unmarshal(body, result); err != nil {
		return zero, err
	}

	if p.cfg.validator != nil {
		if err := p.cfg.validator.Validate(result); err != nil {
			return zero, fmt.Errorf("validation failed: %w", err)
		}
	}

	return result, nil
}

// Proto decodes Protocol Buffers bytes to type T in one call.
//
// Example:
//
//	user, err := proto.Proto[*pb.User](body)
func Proto[T Message](body []byte, opts ...Option) (T, error) {
	return New[T](opts...).Parse(body)
}
