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
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// FromRequest decodes an *http.Request body through the full pipeline.
// The request's context governs cancellation: a client disconnect or a
// server timeout aborts the decode at the next chunk boundary. The body is
// not closed; the server owns its lifecycle.
//
// Example:
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
// Errors: same as [Decode].
func FromRequest[T any](r *http.Request, parser Parser[T], opts ...Option) (T, error) {
	return decode(r.Context(), applyOptions(opts), MetadataFromRequest(r), requestStream(r), parser)
}

// FromRequestWith is [FromRequest] using a shared route [Config].
//
// Example:
//
//	cfg := payload.MustNew(payload.WithLimit(64 << 10))
//	user, err := payload.FromRequestWith[CreateUserRequest](cfg, r, parser)
func FromRequestWith[T any](c *Config, r *http.Request, parser Parser[T]) (T, error) {
	return decode(r.Context(), c.cfg, MetadataFromRequest(r), requestStream(r), parser)
}

// requestStream wraps the request body as a Stream. A nil or empty body
// yields immediate EOF.
func requestStream(r *http.Request) Stream {
	if r.Body == nil || r.Body == http.NoBody {
		return eofStream{}
	}

	return NewReaderStream(r.Body, DefaultChunkSize)
}

// eofStream is a Stream with no chunks.
type eofStream struct{}

func (eofStream) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}

// WriteError writes a classified decode error as a JSON response using the
// boundary status mapping: content type, deserialize, and payload failures
// answer 400; overflow answers 413. Foreign errors answer 500.
//
// The body carries the message plus code and details when the error exposes
// them: {"error": "...", "code": "...", "details": {...}}.
//
// Example:
//
//	user, err := payload.FromRequest(r, parser)
//	if err != nil {
//	    payload.WriteError(w, r, err)
//	    return
//	}
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	body := map[string]any{
		"error": err.Error(),
	}

	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	var detailed interface{ Details() any }
	if errors.As(err, &detailed) {
		if d := detailed.Details(); d != nil {
			body["details"] = d
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(StatusOf(err))
	_ = json.NewEncoder(w).Encode(body)
}
