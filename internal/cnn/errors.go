package cnn

import "fmt"

// RequestError wraps a transport-level failure (DNS, connect, timeout).
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingKeyError means the expected top-level key is absent from the
// payload.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("payload is missing key %q", e.Key)
}

// ShapeError means the value under Key does not have the expected
// structure. Detail says what was expected.
type ShapeError struct {
	Key    string
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected shape under key %q: %s", e.Key, e.Detail)
}

// EmptyError means the historical array under Key held no usable entries.
type EmptyError struct {
	Key string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("no data points under key %q", e.Key)
}

// MissingFieldError means a required field of the current reading is
// missing or null.
type MissingFieldError struct {
	Key   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("key %q is missing required field %q", e.Key, e.Field)
}
