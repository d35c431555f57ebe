package apiclient

import "time"

const (
	defaultBaseURL = "http://localhost:3000"
	defaultTimeout = 30 * time.Second
	// Upper bound on how much of an error body is kept for messages.
	maxErrorBody = 512
)
