// Package services maps each backend operation onto exactly one HTTP call.
package services

import (
	"context"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
)

const (
	EndpointStateStats     = "/dashboard/state-stats"
	EndpointResearchStatus = "/dashboard/research-status"
	EndpointMissingCasinos = "/missing-casinos"
	EndpointComparisons    = "/promotions/comparisons"
	EndpointUsers          = "/users"
)

// Requester is the subset of apiclient.Client the services depend on.
type Requester interface {
	Get(ctx context.Context, endpoint string, params apiclient.Params) ([]byte, error)
	Post(ctx context.Context, endpoint string, body any) ([]byte, error)
	Patch(ctx context.Context, endpoint string, body any) ([]byte, error)
}

// optional drops empty filter values so they never reach the query string.
func optional(v string) any {
	if v == "" {
		return nil
	}
	return v
}
