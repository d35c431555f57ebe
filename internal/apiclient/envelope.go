package apiclient

import (
	"bytes"
	"encoding/json"
)

// Result is the normalized envelope every service works with.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

// Unwrap returns the data, or an ApplicationError when the backend reported failure.
func (r Result[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		return zero, &ApplicationError{Message: r.Error}
	}
	return r.Data, nil
}

type wrappedEnvelope struct {
	IsSuccess bool            `json:"IsSuccess"`
	Data      json.RawMessage `json:"Data"`
	Error     string          `json:"Error"`
}

// DecodeEnvelope accepts both backend shapes: the wrapped {IsSuccess, Data, Error}
// object, and the payload on its own, which is treated as a success.
func DecodeEnvelope[T any](payload []byte) (Result[T], error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Result[T]{}, &ApplicationError{Message: "empty response body"}
	}

	if isWrapped(trimmed) {
		var env wrappedEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Result[T]{}, &ApplicationError{Message: "malformed envelope", Err: err}
		}
		res := Result[T]{Success: env.IsSuccess, Error: env.Error}
		if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			if err := json.Unmarshal(env.Data, &res.Data); err != nil {
				return Result[T]{}, &ApplicationError{Message: "malformed envelope data", Err: err}
			}
		}
		return res, nil
	}

	var data T
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return Result[T]{}, &ApplicationError{Message: "malformed response", Err: err}
	}
	return Result[T]{Success: true, Data: data}, nil
}

// Decode is DecodeEnvelope followed by Unwrap.
func Decode[T any](payload []byte) (T, error) {
	res, err := DecodeEnvelope[T](payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Unwrap()
}

// isWrapped mirrors the backend contract: an object carrying both IsSuccess and Data keys.
func isWrapped(payload []byte) bool {
	if payload[0] != '{' {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return false
	}
	_, hasSuccess := fields["IsSuccess"]
	_, hasData := fields["Data"]
	return hasSuccess && hasData
}
