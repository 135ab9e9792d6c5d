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
	"mime"
	"strings"
)

// MediaType is a parsed Content-Type header value.
//
// For "application/vnd.api+json; charset=utf-8" the fields are
// Type "application", Subtype "vnd.api", Suffix "json", and Params
// {"charset": "utf-8"}.
type MediaType struct {
	Type    string            // Main type, e.g. "application"
	Subtype string            // Subtype without suffix, e.g. "vnd.api"
	Suffix  string            // Structured syntax suffix after "+", e.g. "json"
	Params  map[string]string // Media type parameters, e.g. charset
}

// Predicate decides whether a media type may pass the content-type gate in
// addition to the built-in JSON matching.
//
// Example:
//
//	payload.WithContentType(func(mt payload.MediaType) bool {
//	    return mt.Type == "application" && mt.Subtype == "csp-report"
//	})
type Predicate func(MediaType) bool

// ParseMediaType parses a raw Content-Type header value.
// Type, subtype, and suffix are lowercased per RFC 6838.
//
// Errors are the underlying mime.ParseMediaType errors; callers that only
// gate on the result treat a parse failure as "not acceptable".
func ParseMediaType(raw string) (MediaType, error) {
	mediatype, params, err := mime.ParseMediaType(raw)
	if err != nil {
		return MediaType{}, err
	}

	mt := MediaType{Params: params}
	mt.Type, mt.Subtype, _ = strings.Cut(mediatype, "/")
	if sub, suffix, ok := cutLast(mt.Subtype, '+'); ok {
		mt.Subtype, mt.Suffix = sub, suffix
	}

	return mt, nil
}

// cutLast splits s around the last occurrence of sep.
func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}

	return s[:i], s[i+1:], true
}

// IsJSON reports whether the media type carries JSON: the subtype is exactly
// "json", or the structured syntax suffix is "json" (covering vendor types
// such as application/vnd.api+json).
func (m MediaType) IsJSON() bool {
	return m.Subtype == "json" || m.Suffix == "json"
}

// String reassembles the media type without parameters.
func (m MediaType) String() string {
	s := m.Type + "/" + m.Subtype
	if m.Suffix != "" {
		s += "+" + m.Suffix
	}

	return s
}
