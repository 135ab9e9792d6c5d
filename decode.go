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
	"errors"
	"io"
)

// Decode runs the full pipeline: content-type gate, declared-length
// pre-check, bounded aggregation, then one parser invocation over the
// completed buffer. It produces exactly one outcome — the typed value or a
// classified error — and never a partial value.
//
// The stream is consumed single-threaded and in order; the only suspension
// point is awaiting the next chunk, where ctx cancellation is observed. On a
// gate or pre-check rejection the stream is left untouched.
//
// Example:
//
//	user, err := payload.Decode(ctx, meta, stream, parser,
//	    payload.WithLimit(64<<10),
//	)
//
// Errors:
//   - [ErrContentType]: media type absent, unparsable, or not accepted
//   - [ErrOverflow]: declared or actual body size exceeds the limit
//   - [ErrDeserialize]: parser failure over the completed buffer, cause wrapped
//   - [ErrPayload]: transport failure while reading, cause wrapped
//   - ctx.Err(): the decode was cancelled; not classified, no outcome escapes
//   - unclassified configuration error for invalid options (non-positive limit)
func Decode[T any](ctx context.Context, meta Metadata, stream Stream, parser Parser[T], opts ...Option) (T, error) {
	return decode(ctx, applyOptions(opts), meta, stream, parser)
}

// DecodeWith is [Decode] using a shared route [Config].
//
// Example:
//
//	cfg := payload.MustNew(payload.WithLimit(64 << 10))
//	user, err := payload.DecodeWith[User](ctx, cfg, meta, stream, parser)
func DecodeWith[T any](ctx context.Context, c *Config, meta Metadata, stream Stream, parser Parser[T]) (T, error) {
	return decode(ctx, c.cfg, meta, stream, parser)
}

// decodeState is the mutable entity of one in-flight decode. It is owned
// exclusively by the goroutine running the decode and never escapes the
// package, so no locking is needed. The invariant len(buf) <= cfg.limit
// holds after every mutation; it is enforced by checking before each append.
type decodeState struct {
	cfg   *config
	buf   []byte
	stats Stats
}

// decode drives the pipeline state machine:
//
//	Start → ContentTypeChecked → LengthChecked → Streaming → Parsing →
//	{Succeeded | Failed}
//
// Every stage before Streaming is synchronous; Streaming suspends once per
// awaited chunk; Parsing is synchronous over the completed buffer. Failed is
// reachable from every state, and no stage is re-entered.
func decode[T any](ctx context.Context, cfg *config, meta Metadata, stream Stream, parser Parser[T]) (T, error) {
	var zero T

	// Per-call options skip New's validation, so check here. A misconfigured
	// decode is a caller bug, not a classified outcome: no events fire.
	if err := cfg.validate(); err != nil {
		return zero, err
	}

	st := &decodeState{cfg: cfg}
	defer st.finish()

	// Content-type gate. Reject without reading: the failure path never
	// pays the cost of pulling a chunk.
	if !st.accepts(meta) {
		st.reject(KindContentType)
		return zero, ErrContentType
	}

	// Declared-length pre-check. A cheap fast path only: the header is
	// sender-controlled and may understate the real size, so the
	// aggregator below stays the authoritative enforcement point.
	if n, ok := meta.declaredLength(); ok && n > cfg.limit {
		st.reject(KindOverflow)
		return zero, ErrOverflow
	}

	body, err := st.aggregate(ctx, stream)
	if err != nil {
		return zero, err
	}

	v, err := parser.Parse(body)
	if err != nil {
		st.reject(KindDeserialize)
		return zero, newDeserializeError(err)
	}

	return v, nil
}

// accepts applies the content-type gate: JSON by subtype or suffix, or the
// configured predicate. Absent or unparsable content types never match.
func (st *decodeState) accepts(meta Metadata) bool {
	mt, ok := meta.mediaType()
	if !ok {
		return false
	}

	return mt.IsJSON() || (st.cfg.contentType != nil && st.cfg.contentType(mt))
}

// aggregate pulls chunks until EOF, enforcing the size ceiling on the bytes
// actually received. The check runs before each append, so the buffer never
// exceeds the limit even transiently. Aborts discard the partial buffer and
// stop pulling immediately.
func (st *decodeState) aggregate(ctx context.Context, stream Stream) ([]byte, error) {
	st.buf = make([]byte, 0, int(min(int64(bufferSizeHint), st.cfg.limit)))

	for {
		chunk, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return st.buf, nil
			}

			st.buf = nil
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Cancellation is not an outcome: best-effort cleanup,
				// the context error surfaces unclassified.
				return nil, err
			}

			st.reject(KindPayload)
			return nil, newPayloadError(err)
		}

		if int64(len(st.buf))+int64(len(chunk)) > st.cfg.limit {
			st.buf = nil
			st.reject(KindOverflow)
			return nil, ErrOverflow
		}

		st.buf = append(st.buf, chunk...)
		st.track(len(chunk))
	}
}

// track records an appended chunk.
func (st *decodeState) track(size int) {
	st.stats.Chunks++
	st.stats.BytesRead += size
	if st.cfg.events.ChunkReceived != nil {
		st.cfg.events.ChunkReceived(size, st.stats.BytesRead)
	}
}

// reject emits the Rejected event for a classified failure.
func (st *decodeState) reject(kind Kind) {
	if st.cfg.events.Rejected != nil {
		st.cfg.events.Rejected(kind)
	}
}

// finish emits the Done event with final statistics.
// Always called via defer, even on failure or cancellation.
func (st *decodeState) finish() {
	if st.cfg.events.Done != nil {
		st.cfg.events.Done(st.stats)
	}
}
