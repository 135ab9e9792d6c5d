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
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a decode failure. The set is closed: every error produced
// by this package carries exactly one of the four kinds below.
type Kind int

const (
	// KindUnknown is the zero value; no error produced by this package uses it.
	KindUnknown Kind = iota

	// KindContentType means the request's media type was absent, unparsable,
	// or not accepted by the gate. The body stream was not read.
	KindContentType

	// KindOverflow means the body exceeded the configured size limit, either
	// by its declared Content-Length or by the bytes actually received.
	KindOverflow

	// KindDeserialize means the completed body failed schema parsing or
	// validation. The underlying cause is preserved.
	KindDeserialize

	// KindPayload means the byte stream failed at the transport level while
	// the body was being read. The underlying cause is preserved.
	KindPayload
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindContentType:
		return "content_type"
	case KindOverflow:
		return "overflow"
	case KindDeserialize:
		return "deserialize"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// Error is a classified decode failure.
//
// Use [errors.Is] with the exported sentinels to test for a kind, and
// [errors.As] to reach the wrapped cause:
//
//	var decodeErr *payload.Error
//	if errors.As(err, &decodeErr) {
//	    fmt.Println(decodeErr.Kind(), decodeErr.Unwrap())
//	}
type Error struct {
	kind  Kind
	cause error
}

// Sentinel errors, one per kind. Deserialize and payload failures always
// wrap a cause; match them with errors.Is against these values.
var (
	// ErrContentType is returned when the content-type gate rejects the request.
	ErrContentType = &Error{kind: KindContentType}

	// ErrOverflow is returned when the body size exceeds the configured limit.
	ErrOverflow = &Error{kind: KindOverflow}

	// ErrDeserialize matches any schema parse or validation failure.
	ErrDeserialize = &Error{kind: KindDeserialize}

	// ErrPayload matches any transport-level read failure.
	ErrPayload = &Error{kind: KindPayload}
)

// newDeserializeError wraps a schema parser failure.
func newDeserializeError(cause error) *Error {
	return &Error{kind: KindDeserialize, cause: cause}
}

// newPayloadError wraps a transport read failure.
func newPayloadError(cause error) *Error {
	return &Error{kind: KindPayload, cause: cause}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	switch e.kind {
	case KindContentType:
		return "content type error"
	case KindOverflow:
		return "payload size is bigger than allowed"
	case KindDeserialize:
		return fmt.Sprintf("deserialize error: %v", e.cause)
	case KindPayload:
		return fmt.Sprintf("error reading payload: %v", e.cause)
	default:
		return "unknown payload error"
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports kind equality, so errors.Is(err, ErrDeserialize) matches any
// deserialize failure regardless of its cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// HTTPStatus implements rivaas.dev/errors.ErrorType.
// Overflow is a client mistake, not a server fault: 413, never 500.
func (e *Error) HTTPStatus() int {
	switch e.kind {
	case KindOverflow:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// Code implements rivaas.dev/errors.ErrorCode.
func (e *Error) Code() string {
	switch e.kind {
	case KindContentType:
		return "content_type_error"
	case KindOverflow:
		return "payload_overflow"
	case KindDeserialize:
		return "deserialize_error"
	default:
		return "payload_error"
	}
}

// Details implements rivaas.dev/errors.ErrorDetails.
// It exposes the wrapped cause's message for deserialize and payload errors.
func (e *Error) Details() any {
	if e.cause == nil {
		return nil
	}

	return map[string]any{"cause": e.cause.Error()}
}

// KindOf extracts the classification from an error returned by this package.
// The second return is false for nil errors and foreign errors (including a
// cancelled decode's context error).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}

	return KindUnknown, false
}

// StatusOf maps a classified error to its HTTP status code.
// Foreign errors map to 500 Internal Server Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}

	return http.StatusInternalServerError
}
