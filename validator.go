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

// Validator validates a decoded value. The format subpackages (yaml, toml,
// msgpack, proto) call it after successful decoding when configured via
// their WithValidator option.
//
// Example:
//
//	parser := yaml.New[Config](yaml.WithValidator(myValidator))
type Validator interface {
	Validate(v any) error
}

// ValidatorFunc adapts a function to the [Validator] interface.
type ValidatorFunc func(v any) error

// Validate implements [Validator].
func (f ValidatorFunc) Validate(v any) error {
	return f(v)
}
