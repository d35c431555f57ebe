package promotions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
)

// ComparisonType classifies how a discovered promotion relates to the stored one.
type ComparisonType string

const (
	TypeBetter      ComparisonType = "better"
	TypeAlternative ComparisonType = "alternative"
	TypeNew         ComparisonType = "new"
)

// ComparisonStatus tracks the review decision for a comparison.
type ComparisonStatus string

const (
	StatusPending  ComparisonStatus = "pending"
	StatusUpdated  ComparisonStatus = "updated"
	StatusReviewed ComparisonStatus = "reviewed"
	StatusIgnored  ComparisonStatus = "ignored"
)

// Action is a reviewer decision applied to a pending comparison.
type Action string

const (
	ActionUpdate Action = "update"
	ActionAdd    Action = "add"
	ActionIgnore Action = "ignore"
)

var ErrInvalidAction = errors.New("invalid comparison action")

// ParseAction validates a raw action string.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionUpdate, ActionAdd, ActionIgnore:
		return Action(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

// ResultStatus is the status a comparison moves to once the action is applied.
func (a Action) ResultStatus() ComparisonStatus {
	switch a {
	case ActionUpdate:
		return StatusUpdated
	case ActionIgnore:
		return StatusIgnored
	default:
		return StatusReviewed
	}
}

// PastTense is used in acknowledgement messages ("Comparison ignored successfully").
func (a Action) PastTense() string {
	switch a {
	case ActionUpdate:
		return "updated"
	case ActionAdd:
		return "added"
	case ActionIgnore:
		return "ignored"
	default:
		return string(a)
	}
}

// Promotion is a casino offer, either stored or newly discovered.
type Promotion struct {
	OfferName            string     `json:"Offer_Name"`
	OfferType            string     `json:"offer_type"`
	ExpectedDeposit      float64    `json:"Expected_Deposit"`
	ExpectedBonus        float64    `json:"Expected_Bonus"`
	TermsAndConditions   string     `json:"terms_and_conditions,omitempty"`
	WageringRequirements string     `json:"wagering_requirements,omitempty"`
	ValidFrom            *time.Time `json:"valid_from,omitempty"`
	ValidUntil           *time.Time `json:"valid_until,omitempty"`
}

// CasinoRef identifies the casino a comparison belongs to.
type CasinoRef struct {
	ID    int          `json:"casinodb_id"`
	Name  string       `json:"Name"`
	State domain.State `json:"state"`
}

// Comparison pairs the stored promotion (nil when none exists) with a discovered one.
type Comparison struct {
	ID                  string           `json:"id"`
	Casino              CasinoRef        `json:"casino"`
	CurrentPromotion    *Promotion       `json:"currentPromotion"`
	DiscoveredPromotion Promotion        `json:"discoveredPromotion"`
	ComparisonType      ComparisonType   `json:"comparisonType"`
	Status              ComparisonStatus `json:"status"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

var ErrTypeMismatch = errors.New("comparison type does not match current promotion")

// Validate enforces that "new" comparisons, and only those, lack a current promotion.
func (c Comparison) Validate() error {
	isNew := c.ComparisonType == TypeNew
	if isNew != (c.CurrentPromotion == nil) {
		return fmt.Errorf("%w: %s is %q", ErrTypeMismatch, c.ID, c.ComparisonType)
	}
	return nil
}

// Apply returns a copy moved to the action's result status and stamped with now.
// Any prior status is overwritten, so repeating or changing a decision is allowed.
func (c Comparison) Apply(action Action, now time.Time) Comparison {
	c.Status = action.ResultStatus()
	c.UpdatedAt = now
	return c
}

// Filters narrows the comparisons list. Page and Limit are 1-based page-number pagination.
type Filters struct {
	Status      ComparisonStatus `json:"status,omitempty"`
	Insight     ComparisonType   `json:"insight,omitempty"`
	State       string           `json:"state,omitempty"`
	Casino      string           `json:"casino,omitempty"`
	OfferType   string           `json:"offer_type,omitempty"`
	PromotionID string           `json:"promotion_id,omitempty"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
}

// DefaultFilters is the initial view: pending comparisons, first page of ten.
func DefaultFilters() Filters {
	return Filters{Status: StatusPending, Page: 1, Limit: 10}
}

// Matches applies every non-empty filter field.
func (f Filters) Matches(c Comparison) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Insight != "" && c.ComparisonType != f.Insight {
		return false
	}
	if f.State != "" && c.Casino.State.Abbreviation != f.State {
		return false
	}
	if f.Casino != "" && !strings.Contains(strings.ToLower(c.Casino.Name), strings.ToLower(f.Casino)) {
		return false
	}
	if f.OfferType != "" && c.DiscoveredPromotion.OfferType != f.OfferType {
		return false
	}
	if f.PromotionID != "" && c.ID != f.PromotionID {
		return false
	}
	return true
}

// UpdateRequest is the body of PATCH /promotions/comparisons/:id.
type UpdateRequest struct {
	Action Action `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateResponse acknowledges a comparison action.
type UpdateResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Comparison Comparison `json:"comparison"`
}

// Page is the paginated response for GET /promotions/comparisons.
type Page = domain.Page[Comparison]
