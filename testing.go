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
	"context"
	"io"
	"testing"
)

// TestMetadata creates request metadata for testing.
//
// Example:
//
//	meta := payload.TestMetadata(t, "application/json", "14")
func TestMetadata(t *testing.T, contentType, contentLength string) Metadata {
	t.Helper()

	return Metadata{ContentType: contentType, ContentLength: contentLength}
}

// TestStream creates a Stream that yields the given chunks in order, then
// EOF. It also records how many times Next was called; assert on it with
// [ScriptedStream.Calls].
//
// Example:
//
//	stream := payload.TestStream(t, `{"name":`, `"Bob"}`)
func TestStream(t *testing.T, chunks ...string) *ScriptedStream {
	t.Helper()

	return &ScriptedStream{chunks: chunks}
}

// TestFailingStream creates a Stream that yields the given chunks in order
// and then fails with err instead of EOF.
//
// Example:
//
//	stream := payload.TestFailingStream(t, io.ErrUnexpectedEOF, `{"na`)
func TestFailingStream(t *testing.T, err error, chunks ...string) *ScriptedStream {
	t.Helper()

	return &ScriptedStream{chunks: chunks, err: err}
}

// NoReadStream creates a Stream that fails the test if it is ever read.
// Use it to verify that rejection paths leave the body untouched.
//
// Example:
//
//	_, err := payload.Decode(ctx, meta, payload.NoReadStream(t), parser)
func NoReadStream(t *testing.T) Stream {
	return noReadStream{t: t}
}

type noReadStream struct {
	t *testing.T
}

func (s noReadStream) Next(context.Context) ([]byte, error) {
	s.t.Helper()
	s.t.Fatal("NoReadStream: Next called, body should not have been read")

	return nil, io.EOF
}

// ScriptedStream is a Stream fed from a fixed chunk script. It is the return
// type of [TestStream] and [TestFailingStream].
type ScriptedStream struct {
	chunks []string
	err    error
	calls  int
}

// Next implements [Stream].
func (s *ScriptedStream) Next(ctx context.Context) ([]byte, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}

		return nil, io.EOF
	}

	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]

	return []byte(chunk), nil
}

// Calls returns how many times Next has been called.
func (s *ScriptedStream) Calls() int {
	return s.calls
}

// CountingParser wraps a Parser and counts Parse invocations. Use it to
// verify the parser runs exactly once on success and never on an aborted
// decode.
type CountingParser[T any] struct {
	Parser Parser[T]
	Count  int
}

// Parse implements [Parser].
func (p *CountingParser[T]) Parse(body []byte) (T, error) {
	p.Count++

	return p.Parser.Parse(body)
}

// MustDecode decodes and fails the test on error.
//
// Example:
//
//	user := payload.MustDecode[User](t, meta, stream, parser)
func MustDecode[T any](t *testing.T, meta Metadata, stream Stream, parser Parser[T], opts ...Option) T {
	t.Helper()

	v, err := Decode(t.Context(), meta, stream, parser, opts...)
	if err != nil {
		t.Fatalf("MustDecode[%T]: decode failed: %v", v, err)
	}

	return v
}
