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

//go:build !integration

package payload

import (
	"bytes"
	"context"
	"testing"
)

// FuzzParseMediaType ensures header parsing never panics and the gate
// semantics stay total over arbitrary input.
func FuzzParseMediaType(f *testing.F) {
	f.Add("application/json")
	f.Add("application/vnd.api+json; charset=utf-8")
	f.Add(";;;")
	f.Add("")
	f.Add("a/b+c+d;x=y")

	f.Fuzz(func(t *testing.T, raw string) {
		mt, err := ParseMediaType(raw)
		if err != nil {
			return
		}
		// Parsed types must reassemble into something parseable again.
		_ = mt.IsJSON()
		_ = mt.String()
	})
}

// FuzzDecode_BufferNeverExceedsLimit fuzzes the aggregator invariant: for
// any body, chunking, and limit, the accumulated size observed by events is
// bounded by the limit.
func FuzzDecode_BufferNeverExceedsLimit(f *testing.F) {
	f.Add([]byte(`{"name":"Bob"}`), 3, int64(8))
	f.Add([]byte{}, 1, int64(1))
	f.Add(bytes.Repeat([]byte("x"), 256), 7, int64(64))

	f.Fuzz(func(t *testing.T, body []byte, chunkSize int, limit int64) {
		if limit <= 0 || limit > 1<<20 {
			t.Skip()
		}

		meta := Metadata{ContentType: "application/json"}
		stream := NewReaderStream(bytes.NewReader(body), chunkSize)
		parser := ParserFunc[struct{}](func([]byte) (struct{}, error) {
			return struct{}{}, nil
		})

		maxTotal := 0
		_, _ = Decode(context.Background(), meta, stream, parser,
			WithLimit(limit),
			WithEvents(Events{
				ChunkReceived: func(_, total int) {
					if total > maxTotal {
						maxTotal = total
					}
				},
			}),
		)

		if int64(maxTotal) > limit {
			t.Fatalf("buffer grew to %d bytes, limit %d", maxTotal, limit)
		}
	})
}
