package services

import (
	"context"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
)

type MissingCasinosService struct {
	api Requester
}

func NewMissingCasinosService(api Requester) *MissingCasinosService {
	return &MissingCasinosService{api: api}
}

// GetMissingCasinos fetches one offset window of the filtered list.
func (s *MissingCasinosService) GetMissingCasinos(ctx context.Context, q casinos.Query) (casinos.Page, error) {
	params := apiclient.Params{
		"state":  optional(q.State),
		"search": optional(q.Search),
		"limit":  q.Limit,
		"offset": q.Offset,
	}
	body, err := s.api.Get(ctx, EndpointMissingCasinos, params)
	if err != nil {
		return casinos.Page{}, err
	}
	return apiclient.Decode[casinos.Page](body)
}
