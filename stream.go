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

// DefaultChunkSize is the read size used by [NewReaderStream] when no
// explicit chunk size is given.
const DefaultChunkSize = 4 << 10

// Stream is an ordered, single-consumer sequence of body chunks.
//
// Next returns the next chunk, io.EOF after the final chunk, or a transport
// error. Chunk boundaries carry no meaning. The returned slice is only valid
// until the following Next call; the decoder copies it before suspending
// again. A Stream has no rewind: once Next reports io.EOF or an error, it
// must not be called again.
//
// Next must honor ctx: a cancelled context aborts the pending read and
// returns ctx.Err().
type Stream interface {
	Next(ctx context.Context) ([]byte, error)
}

// readerStream adapts an io.Reader into a Stream.
type readerStream struct {
	r   io.Reader
	buf []byte
}

// NewReaderStream wraps an io.Reader as a [Stream], reading up to chunkSize
// bytes per call. A chunkSize of zero or less uses [DefaultChunkSize].
//
// The reader is not closed; the owner of the reader (for HTTP bodies, the
// server) keeps responsibility for its lifecycle.
func NewReaderStream(r io.Reader, chunkSize int) Stream {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &readerStream{r: r, buf: make([]byte, chunkSize)}
}

// Next reads one chunk. The context is checked before the read; io.Reader
// itself has no cancellation, so an in-flight Read is bounded by the caller
// (for HTTP bodies the server closes the connection, unblocking Read).
func (s *readerStream) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			return s.buf[:n], nil
		}
		if err == nil {
			// Zero-byte read with nil error; retry per io.Reader contract.
			// Looping keeps a persistently zero-yielding reader from growing
			// the stack.
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, err
	}
}
