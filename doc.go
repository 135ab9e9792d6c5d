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

// Package payload provides bounded, cancellable request body decoding.
//
// The payload package sits between an inbound byte stream and a typed,
// validated value. It gates on the declared media type before any byte is
// read, rejects oversized bodies from the Content-Length hint, aggregates
// chunks under a hard memory ceiling, and hands the completed buffer to a
// pluggable schema parser. Every failure collapses into one of four stable
// kinds: content type, overflow, deserialize, payload.
//
// # Quick Start
//
// Decode a JSON body straight from an *http.Request:
//
//	parser := schema.MustNew[CreateUserRequest]()
//
//	func createUser(w http.ResponseWriter, r *http.Request) {
//	    user, err := payload.FromRequest(r, parser)
//	    if err != nil {
//	        payload.WriteError(w, r, err)
//	        return
//	    }
//	    // use user
//	}
//
// # Pipeline
//
// A decode runs through fixed stages, any of which can terminate it:
//
//  1. Content-Type gate: proceed only if the media type is JSON (subtype
//     "json" or "+json" suffix) or the configured predicate accepts it.
//     Rejection never reads the stream.
//  2. Declared-length pre-check: a parseable Content-Length above the limit
//     fails fast, before any allocation or read.
//  3. Aggregation: chunks are pulled one at a time; the cumulative size is
//     checked against the limit before every append, so memory stays bounded
//     no matter what the sender declared.
//  4. Parse: the completed buffer is handed to the [Parser] exactly once.
//
// # Configuration
//
// Use functional options per call, or build a reusable [Config] per route:
//
//	cfg := payload.MustNew(
//	    payload.WithLimit(1 << 20),
//	    payload.WithContentType(func(mt payload.MediaType) bool {
//	        return mt.Subtype == "csp-report"
//	    }),
//	)
//
//	user, err := payload.FromRequestWith[CreateUserRequest](cfg, r, parser)
//
// Config is immutable after construction and safe to share across
// concurrently in-flight decodes.
//
// # Pluggable Parsers
//
// Anything that turns a completed buffer into a value satisfies [Parser]:
//
//   - rivaas.dev/payload/schema: encoding/json plus struct tag validation
//   - rivaas.dev/payload/yaml: YAML bodies (gopkg.in/yaml.v3)
//   - rivaas.dev/payload/toml: TOML bodies (github.com/BurntSushi/toml)
//   - rivaas.dev/payload/msgpack: MessagePack bodies (github.com/vmihailenco/msgpack/v5)
//   - rivaas.dev/payload/proto: Protocol Buffers bodies (google.golang.org/protobuf)
//
// Non-JSON parsers pair with [WithContentType] to admit their media types
// through the gate.
//
// # Error Handling
//
// Failures are classified, never swallowed:
//
//	user, err := payload.FromRequest(r, parser)
//	if err != nil {
//	    switch {
//	    case errors.Is(err, payload.ErrOverflow):
//	        // body exceeded the limit
//	    case errors.Is(err, payload.ErrContentType):
//	        // wrong or missing media type
//	    }
//	}
//
// [StatusOf] maps a classified error to an HTTP status code, and
// [WriteError] writes the full JSON error response.
//
// # Observability
//
// The package performs no logging. Attach [Events] hooks for metrics and
// diagnostics, or use rivaas.dev/payload/metrics for ready-made
// OpenTelemetry instrumentation:
//
//	payload.WithEvents(payload.Events{
//	    Done: func(stats payload.Stats) {
//	        log.Printf("read %d bytes in %d chunks", stats.BytesRead, stats.Chunks)
//	    },
//	})
//
// # Cancellation
//
// The only suspension point is awaiting the next chunk. Cancelling the
// context aborts the decode there: the partial buffer is discarded, no
// further reads are attempted, and the context error is returned unwrapped
// so callers can test errors.Is(err, context.Canceled).
package payload
