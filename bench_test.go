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
	"context"
	"strings"
	"testing"
)

// BenchmarkDecode_SmallBody measures the full pipeline on a typical small
// JSON payload.
func BenchmarkDecode_SmallBody(b *testing.B) {
	meta := Metadata{ContentType: "application/json"}
	parser := JSONParser[welcomeRequest]()
	body := `{"name":"Bob"}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stream := NewReaderStream(strings.NewReader(body), DefaultChunkSize)
		if _, err := Decode(context.Background(), meta, stream, parser); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecode_ChunkedBody measures aggregation over many small chunks.
func BenchmarkDecode_ChunkedBody(b *testing.B) {
	meta := Metadata{ContentType: "application/json"}
	parser := JSONParser[map[string]string]()
	body := `{"name":"` + strings.Repeat("x", 16<<10) + `"}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stream := NewReaderStream(strings.NewReader(body), 512)
		if _, err := Decode(context.Background(), meta, stream, parser); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecode_GateReject measures the cost of the no-read rejection path.
func BenchmarkDecode_GateReject(b *testing.B) {
	meta := Metadata{ContentType: "text/plain"}
	parser := JSONParser[welcomeRequest]()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(context.Background(), meta, eofStream{}, parser); err == nil {
			b.Fatal("expected rejection")
		}
	}
}
