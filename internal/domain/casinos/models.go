package casinos

import (
	"strings"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
)

// MissingCasino is a casino seen by a regulator but absent from the system of record.
type MissingCasino struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	State           domain.State `json:"state"`
	Source          string       `json:"source"`
	PromotionsFound int          `json:"promotionsFound"`
	DiscoveredAt    time.Time    `json:"discoveredAt"`
	Website         string       `json:"website,omitempty"`
	RegulatoryID    string       `json:"regulatoryId,omitempty"`
}

// Filters narrows the missing casinos list. Empty fields match everything.
type Filters struct {
	State  string `json:"state,omitempty"`
	Search string `json:"search,omitempty"`
}

// Normalized trims whitespace so equivalent filters compare equal.
func (f Filters) Normalized() Filters {
	return Filters{
		State:  strings.ToUpper(strings.TrimSpace(f.State)),
		Search: strings.TrimSpace(f.Search),
	}
}

// Matches applies the state filter, then a case-insensitive search over name or source.
func (f Filters) Matches(c MissingCasino) bool {
	if f.State != "" && !strings.EqualFold(c.State.Abbreviation, f.State) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(strings.ToLower(c.Source), needle) {
			return false
		}
	}
	return true
}

// Query is one offset window over the filtered list.
type Query struct {
	Filters
	Limit  int
	Offset int
}

// Page is the paginated response for GET /missing-casinos.
type Page = domain.Page[MissingCasino]
