package services

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
)

type DashboardService struct {
	api Requester
}

func NewDashboardService(api Requester) *DashboardService {
	return &DashboardService{api: api}
}

// GetStateStats fetches the per-state statistics snapshot.
func (s *DashboardService) GetStateStats(ctx context.Context) (dashboard.Snapshot, error) {
	body, err := s.api.Get(ctx, EndpointStateStats, nil)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return apiclient.Decode[dashboard.Snapshot](body)
}

// UpdateResearchStatus starts or stops the research job. Unknown actions never leave the process.
func (s *DashboardService) UpdateResearchStatus(ctx context.Context, action dashboard.ResearchAction) (dashboard.ResearchStatus, error) {
	if _, err := dashboard.ParseResearchAction(string(action)); err != nil {
		return dashboard.ResearchStatus{}, fmt.Errorf("update research status: %w", err)
	}
	body, err := s.api.Post(ctx, EndpointResearchStatus, dashboard.ResearchStatusRequest{Action: action})
	if err != nil {
		return dashboard.ResearchStatus{}, err
	}
	return apiclient.Decode[dashboard.ResearchStatus](body)
}
