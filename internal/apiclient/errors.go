package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrEncodeBody marks a request body that could not be encoded. The request was never sent.
var ErrEncodeBody = errors.New("encode body")

// TimeoutError reports a request that exceeded its deadline.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout: %s %s after %s", e.Method, e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsClientError reports a 4xx status.
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// TransportError reports a failure before any response arrived, including caller cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError reports a 2xx response whose envelope signals failure or cannot be decoded.
type ApplicationError struct {
	Message string
	Err     error
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// AsHTTPError unwraps err into an HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsApplicationError reports whether err is an ApplicationError.
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}

// IsClientError reports a 4xx HTTPError.
func IsClientError(err error) bool {
	httpErr, ok := AsHTTPError(err)
	return ok && httpErr.IsClientError()
}

func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	trimmed := strings.TrimSpace(string(body))
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
		Body:       trimmed,
	}
}

// errorMessage pulls a human message out of the error shapes the backend is known to send.
func errorMessage(body []byte) string {
	var shape struct {
		Error   string `json:"Error"`
		Message string `json:"message"`
		Lower   string `json:"error"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return ""
	}
	switch {
	case shape.Error != "":
		return shape.Error
	case shape.Message != "":
		return shape.Message
	default:
		return shape.Lower
	}
}
