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
	"net/http"
	"strconv"
)

// Metadata is the read-only request view the pipeline decides from before
// touching the body. Both headers are kept raw: either may be absent,
// malformed, or lying about the actual body.
type Metadata struct {
	// ContentType is the raw Content-Type header value, or "" if absent.
	ContentType string

	// ContentLength is the raw Content-Length header value, or "" if absent.
	// It is a sender-controlled hint, never trusted as the actual size.
	ContentLength string
}

// MetadataFromRequest extracts decode metadata from an *http.Request.
//
// net/http removes the Content-Length header from the map on some requests
// (notably chunked bodies) while still exposing the transfer length via
// r.ContentLength; fall back to it so the fast-path pre-check keeps firing.
// -1 (unknown) and 0 defer to the aggregator as before.
func MetadataFromRequest(r *http.Request) Metadata {
	m := Metadata{
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.Header.Get("Content-Length"),
	}
	if m.ContentLength == "" && r.ContentLength > 0 {
		m.ContentLength = strconv.FormatInt(r.ContentLength, 10)
	}

	return m
}

// mediaType parses the Content-Type header. The second return is false when
// the header is absent or unparsable, which the gate treats as not JSON.
func (m Metadata) mediaType() (MediaType, bool) {
	if m.ContentType == "" {
		return MediaType{}, false
	}

	mt, err := ParseMediaType(m.ContentType)
	if err != nil {
		return MediaType{}, false
	}

	return mt, true
}

// declaredLength parses the Content-Length hint. The second return is false
// when the header is absent, malformed, or negative; those cases defer
// entirely to the aggregator's hard check.
func (m Metadata) declaredLength() (int64, bool) {
	if m.ContentLength == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(m.ContentLength, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
