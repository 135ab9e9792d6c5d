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

package yaml

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/payload"
)

type serverConfig struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	parser := New[serverConfig]()

	got, err := parser.Parse([]byte("name: api\nport: 8080\ndebug: true\n"))
	require.NoError(t, err)
	assert.Equal(t, serverConfig{Name: "api", Port: 8080, Debug: true}, got)
}

func TestParser_Parse_Invalid(t *testing.T) {
	t.Parallel()

	parser := New[serverConfig]()

	_, err := parser.Parse([]byte("name: [unterminated"))
	require.Error(t, err)
}

func TestParser_Parse_KnownFields(t *testing.T) {
	t.Parallel()

	strict := New[serverConfig](WithKnownFields())

	_, err := strict.Parse([]byte("name: api\nextra: true\n"))
	require.Error(t, err)

	// Unknown fields are fine without the option.
	permissive := New[serverConfig]()
	got, err := permissive.Parse([]byte("name: api\nextra: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
}

func TestParser_Parse_Validator(t *testing.T) {
	t.Parallel()

	errBadPort := errors.New("port out of range")
	parser := New[serverConfig](WithValidator(payload.ValidatorFunc(func(v any) error {
		if v.(*serverConfig).Port > 65535 {
			return errBadPort
		}
		return nil
	})))

	_, err := parser.Parse([]byte("port: 99999\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBadPort)

	got, err := parser.Parse([]byte("port: 8080\n"))
	require.NoError(t, err)
	assert.Equal(t, 8080, got.Port)
}

func TestYAML(t *testing.T) {
	t.Parallel()

	got, err := YAML[serverConfig]([]byte("name: api\n"))
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
}

func TestAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/yaml", true},
		{"application/x-yaml", true},
		{"text/yaml", true},
		{"application/vnd.example+yaml", true},
		{"application/json", false},
		{"text/plain", false},
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

	meta := payload.Metadata{ContentType: "application/yaml"}
	stream := payload.TestStream(t, "name: api\n", "port: 8080\n")

	got, err := payload.Decode(context.Background(), meta, stream, New[serverConfig](),
		payload.WithContentType(Accept))
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
	assert.Equal(t, 8080, got.Port)
}

func TestParser_WithPipeline_GateRejectsWithoutPredicate(t *testing.T) {
	t.Parallel()

	meta := payload.Metadata{ContentType: "application/yaml"}
	stream := payload.NoReadStream(t)

	_, err := payload.Decode(context.Background(), meta, stream, New[serverConfig]())
	require.Error(t, err)
	assert.ErrorIs(t, err, payload.ErrContentType)
}
