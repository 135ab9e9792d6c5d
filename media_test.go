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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMediaType tests parsing of raw Content-Type values.
func TestParseMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want MediaType
	}{
		{
			name: "plain json",
			raw:  "application/json",
			want: MediaType{Type: "application", Subtype: "json", Params: map[string]string{}},
		},
		{
			name: "vendor suffix",
			raw:  "application/vnd.api+json",
			want: MediaType{Type: "application", Subtype: "vnd.api", Suffix: "json", Params: map[string]string{}},
		},
		{
			name: "charset parameter",
			raw:  "application/json; charset=utf-8",
			want: MediaType{Type: "application", Subtype: "json", Params: map[string]string{"charset": "utf-8"}},
		},
		{
			name: "uppercase folds",
			raw:  "Application/JSON",
			want: MediaType{Type: "application", Subtype: "json", Params: map[string]string{}},
		},
		{
			name: "multiple plus signs keep last suffix",
			raw:  "application/a+b+json",
			want: MediaType{Type: "application", Subtype: "a+b", Suffix: "json", Params: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mt, err := ParseMediaType(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, mt)
		})
	}
}

// TestParseMediaType_Invalid tests that malformed headers fail parsing.
func TestParseMediaType_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", ";;;", "application/json; ="} {
		t.Run("raw "+raw, func(t *testing.T) {
			t.Parallel()

			_, err := ParseMediaType(raw)

			assert.Error(t, err)
		})
	}
}

// TestMediaType_IsJSON tests the gate's built-in matching.
func TestMediaType_IsJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"application/json", true},
		{"text/json", true},
		{"application/vnd.api+json", true},
		{"application/hal+json", true},
		{"application/xml", false},
		{"application/json-patch", false},
		{"text/plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			mt, err := ParseMediaType(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, mt.IsJSON())
		})
	}
}

// TestMediaType_String tests reassembly without parameters.
func TestMediaType_String(t *testing.T) {
	t.Parallel()

	mt, err := ParseMediaType("application/vnd.api+json; charset=utf-8")

	require.NoError(t, err)
	assert.Equal(t, "application/vnd.api+json", mt.String())
}
