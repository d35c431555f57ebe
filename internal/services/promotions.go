package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
)

type PromotionsService struct {
	api Requester
}

func NewPromotionsService(api Requester) *PromotionsService {
	return &PromotionsService{api: api}
}

// GetComparisons fetches one page of comparisons.
func (s *PromotionsService) GetComparisons(ctx context.Context, f promotions.Filters) (promotions.Page, error) {
	params := apiclient.Params{
		"status":       optional(string(f.Status)),
		"insight":      optional(string(f.Insight)),
		"state":        optional(f.State),
		"casino":       optional(f.Casino),
		"offer_type":   optional(f.OfferType),
		"promotion_id": optional(f.PromotionID),
		"page":         f.Page,
		"limit":        f.Limit,
	}
	body, err := s.api.Get(ctx, EndpointComparisons, params)
	if err != nil {
		return promotions.Page{}, err
	}
	return apiclient.Decode[promotions.Page](body)
}

// UpdateComparison applies a reviewer action and returns the acknowledgement.
func (s *PromotionsService) UpdateComparison(ctx context.Context, id string, action promotions.Action, notes string) (promotions.UpdateResponse, error) {
	if id == "" {
		return promotions.UpdateResponse{}, fmt.Errorf("update comparison: empty id")
	}
	if _, err := promotions.ParseAction(string(action)); err != nil {
		return promotions.UpdateResponse{}, fmt.Errorf("update comparison %s: %w", id, err)
	}
	endpoint := EndpointComparisons + "/" + url.PathEscape(id)
	body, err := s.api.Patch(ctx, endpoint, promotions.UpdateRequest{Action: action, Notes: notes})
	if err != nil {
		return promotions.UpdateResponse{}, err
	}
	return apiclient.Decode[promotions.UpdateResponse](body)
}
