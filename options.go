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

package payload

import (
	"fmt"
)

const (
	// DefaultLimit is the default maximum body size in bytes (32 KiB).
	// It is the single authoritative default: every decode resolves against
	// it unless [WithLimit] overrides it.
	DefaultLimit = 32 << 10

	// bufferSizeHint is the initial buffer capacity for the aggregator.
	// Small well-behaved payloads never grow past it, while larger bodies
	// amortize growth from here instead of pre-allocating the full limit.
	bufferSizeHint = 8 << 10
)

// Events provides hooks for observability without coupling.
// All hooks are optional; a nil hook is skipped.
type Events struct {
	// ChunkReceived is called after each chunk passes the size check and is
	// appended. size is the chunk length, total the accumulated body length.
	ChunkReceived func(size, total int)

	// Rejected is called when the decode terminates with a classified
	// failure, with the failure's kind.
	Rejected func(kind Kind)

	// Done is called exactly once when the decode resolves, success or not
	// (emitted via defer). A cancelled decode also reports its stats.
	Done func(stats Stats)
}

// Stats tracks a single decode operation.
type Stats struct {
	Chunks    int // Chunks appended to the buffer
	BytesRead int // Total bytes appended
}

// Option configures decode behavior.
type Option func(*config)

// config is the immutable per-decode configuration. It is built once by
// applyOptions (or held by a [Config]) and never mutated afterwards, so it
// can be shared by concurrently in-flight decodes.
type config struct {
	limit       int64
	contentType Predicate
	events      Events
}

// WithLimit sets the maximum body size in bytes.
// The default is [DefaultLimit].
//
// The limit binds both the Content-Length pre-check and the aggregator's
// hard ceiling on bytes actually received.
//
// Example:
//
//	payload.FromRequest(r, parser, payload.WithLimit(1<<20))
func WithLimit(n int64) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithContentType sets a predicate admitting media types beyond the built-in
// JSON matching. The predicate sees the parsed media type; requests with an
// absent or unparsable Content-Type never reach it.
//
// Example:
//
//	payload.WithContentType(func(mt payload.MediaType) bool {
//	    return mt.String() == "application/msgpack"
//	})
func WithContentType(p Predicate) Option {
	return func(c *config) {
		c.contentType = p
	}
}

// WithEvents attaches observability hooks.
//
// Example:
//
//	payload.WithEvents(payload.Events{
//	    Done: func(stats payload.Stats) {
//	        log.Printf("decoded %d bytes", stats.BytesRead)
//	    },
//	})
func WithEvents(e Events) Option {
	return func(c *config) {
		c.events = e
	}
}

// defaultConfig returns the default decode configuration.
func defaultConfig() *config {
	return &config{limit: DefaultLimit}
}

// applyOptions creates a fresh config and applies the given options.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// validate checks configuration invariants.
func (c *config) validate() error {
	if c.limit <= 0 {
		return fmt.Errorf("payload: limit must be positive, got %d", c.limit)
	}

	return nil
}

// Config is a reusable, immutable decode configuration, typically built once
// per route and shared by every in-flight decode on it.
//
// Config is safe for concurrent use by multiple goroutines.
//
// Note: Go methods cannot be generic, so decoding with a Config goes through
// the helper functions [DecodeWith] and [FromRequestWith].
//
// Example:
//
//	cfg := payload.MustNew(payload.WithLimit(64 << 10))
//
//	user, err := payload.FromRequestWith[CreateUserRequest](cfg, r, parser)
type Config struct {
	cfg *config
}

// New creates a [Config] with the given options.
// Returns an error if the configuration is invalid (non-positive limit).
func New(opts ...Option) (*Config, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Config{cfg: cfg}, nil
}

// MustNew creates a [Config] with the given options.
// Panics if the configuration is invalid.
//
// Use in main() or init() where panic on startup is acceptable.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("payload: invalid config: %v", err))
	}

	return c
}

// Limit returns the configured maximum body size in bytes.
func (c *Config) Limit() int64 {
	return c.cfg.limit
}
