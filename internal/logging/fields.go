package logging

import (
	"log/slog"
	"time"
)

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldEndpoint   = "endpoint"
	FieldQueryKey   = "query_key"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldAction     = "action"
	FieldCount      = "count"
	FieldAttempt    = "attempt"
	FieldProgress   = "progress"
	FieldDurationMS = "duration_ms"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}

// Elapsed renders d in whole milliseconds under FieldDurationMS.
func Elapsed(d time.Duration) slog.Attr {
	return slog.Int64(FieldDurationMS, d.Milliseconds())
}
