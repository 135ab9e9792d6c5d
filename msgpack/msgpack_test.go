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

package msgpack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"rivaas.dev/payload"
)

type event struct {
	ID   string `msgpack:"id"`
	Kind string `msgpack:"kind"`
}

func encode(t *testing.T, v any) []byte {
	t.Helper()

	body, err := msgpack.Marshal(v)
	require.NoError(t, err)

	return body
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	parser := New[event]()
	body := encode(t, event{ID: "e1", Kind: "created"})

	got, err := parser.Parse(body)
	require.NoError(t, err)
	assert.Equal(t, event{ID: "e1", Kind: "created"}, got)
}

func TestParser_Parse_Invalid(t *testing.T) {
	t.Parallel()

	parser := New[event]()

	_, err := parser.Parse([]byte{0xc1}) // reserved, never valid
	require.Error(t, err)
}

func TestParser_Parse_DisallowUnknownFields(t *testing.T) {
	t.Parallel()

	body := encode(t, map[string]any{"id": "e1", "extra": true})

	strict := New[event](WithDisallowUnknownFields())
	_, err := strict.Parse(body)
	require.Error(t, err)

	// Unknown fields are fine without the option.
	permissive := New[event]()
	got, err := permissive.Parse(body)
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
}

func TestParser_Parse_Validator(t *testing.T) {
	t.Parallel()

	errNoID := errors.New("id is required")
	parser := New[event](WithValidator(payload.ValidatorFunc(func(v any) error {
		if v.(*event).ID == "" {
			return errNoID
		}
		return nil
	})))

	_, err := parser.Parse(encode(t, event{Kind: "created"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoID)
}

func TestMsgpack(t *testing.T) {
	t.Parallel()

	got, err := Msgpack[event](encode(t, event{ID: "e1"}))
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
}

func TestAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/msgpack", true},
		{"application/x-msgpack", true},
		{"application/vnd.example+msgpack", true},
		{"application/json", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()

			mt, err := payload.ParseMediaType(tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Accept(mt))
		})
	}
}

func TestParser_WithPipeline(t *testing.T) {
	t.Parallel()

	body := encode(t, event{ID: "e1", Kind: "created"})

	meta := payload.Metadata{ContentType: "application/msgpack"}
	stream := payload.TestStream(t, string(body))

	got, err := payload.Decode(context.Background(), meta, stream, New[event](),
		payload.WithContentType(Accept))
	require.NoError(t, err)
	assert.Equal(t, event{ID: "e1", Kind: "created"}, got)
}
