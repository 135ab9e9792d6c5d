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

import "encoding/json"

// Parser turns a completed body buffer into a typed value, or fails with a
// structured error. It is the capability the pipeline hands the aggregated
// bytes to, exactly once per decode.
//
// Parse must be a pure function of its input: no retained references to the
// buffer, equal results for equal buffers. The pipeline wraps any returned
// error as a deserialize failure without interpreting it.
//
// Implementations in this repository:
//
//   - rivaas.dev/payload/schema (JSON + struct tag validation)
//   - rivaas.dev/payload/yaml, /toml, /msgpack, /proto
type Parser[T any] interface {
	Parse(body []byte) (T, error)
}

// ParserFunc adapts a function to the [Parser] interface.
//
// Example:
//
//	parser := payload.ParserFunc[map[string]any](func(body []byte) (map[string]any, error) {
//	    var m map[string]any
//	    err := json.Unmarshal(body, &m)
//	    return m, err
//	})
type ParserFunc[T any] func(body []byte) (T, error)

// Parse implements [Parser].
func (f ParserFunc[T]) Parse(body []byte) (T, error) {
	return f(body)
}

// JSONParser returns a [Parser] that unmarshals the body with encoding/json
// and applies no validation. For schema-validated decoding use
// rivaas.dev/payload/schema.
func JSONParser[T any]() Parser[T] {
	return ParserFunc[T](func(body []byte) (T, error) {
		var v T
		err := json.Unmarshal(body, &v)

		return v, err
	})
}
