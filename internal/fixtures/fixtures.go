package fixtures

import (
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
)

// Provider returns the static datasets served by the mock backend.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// NewWithClock is New with an injected time source.
func NewWithClock(now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{now: now}
}

// StateStats returns the baseline per-state counters, all idle, stamped with the current time.
func (p *Provider) StateStats() dashboard.Snapshot {
	now := p.now().UTC()
	stat := func(state domain.State, casinosTracked, promotionsActive, missing, pending int) dashboard.StateStat {
		return dashboard.StateStat{
			State:              state,
			CasinosTracked:     casinosTracked,
			PromotionsActive:   promotionsActive,
			MissingCasinos:     dashboard.IntPtr(missing),
			PendingComparisons: dashboard.IntPtr(pending),
			Status:             dashboard.StatusIdle,
			LastUpdated:        now,
		}
	}
	return dashboard.Snapshot{
		Data: []dashboard.StateStat{
			stat(domain.NewJersey, 12, 45, 3, 8),
			stat(domain.Michigan, 15, 52, 2, 12),
			stat(domain.Pennsylvania, 18, 67, 5, 15),
			stat(domain.WestVirginia, 8, 28, 1, 4),
		},
		Timestamp: now,
	}
}

// MissingCasinos returns twelve casinos, newest discovery first.
func (p *Provider) MissingCasinos() []casinos.MissingCasino {
	const (
		njSource = "NJ Gaming Commission"
		miSource = "Michigan Gaming Control Board"
		paSource = "Pennsylvania Gaming Control Board"
		wvSource = "West Virginia Lottery"
	)
	return []casinos.MissingCasino{
		{ID: "casino-001", Name: "Golden Nugget Atlantic City", State: domain.NewJersey, Source: njSource, PromotionsFound: 3, DiscoveredAt: mustTime("2024-01-15T10:30:00Z"), Website: "https://goldennugget.com/atlantic-city", RegulatoryID: "NJ-001"},
		{ID: "casino-002", Name: "Resorts Casino Hotel", State: domain.NewJersey, Source: njSource, PromotionsFound: 2, DiscoveredAt: mustTime("2024-01-14T09:15:00Z"), Website: "https://resortscasino.com", RegulatoryID: "NJ-002"},
		{ID: "casino-003", Name: "Tropicana Atlantic City", State: domain.NewJersey, Source: njSource, PromotionsFound: 5, DiscoveredAt: mustTime("2024-01-13T14:20:00Z"), Website: "https://tropicana.net", RegulatoryID: "NJ-003"},
		{ID: "casino-004", Name: "MotorCity Casino Hotel", State: domain.Michigan, Source: miSource, PromotionsFound: 4, DiscoveredAt: mustTime("2024-01-12T11:45:00Z"), Website: "https://motorcitycasino.com", RegulatoryID: "MI-001"},
		{ID: "casino-005", Name: "FireKeepers Casino Hotel", State: domain.Michigan, Source: miSource, PromotionsFound: 2, DiscoveredAt: mustTime("2024-01-11T16:30:00Z"), Website: "https://firekeeperscasino.com", RegulatoryID: "MI-002"},
		{ID: "casino-006", Name: "Rivers Casino Philadelphia", State: domain.Pennsylvania, Source: paSource, PromotionsFound: 6, DiscoveredAt: mustTime("2024-01-10T08:00:00Z"), Website: "https://riverscasino.com/philadelphia", RegulatoryID: "PA-001"},
		{ID: "casino-007", Name: "Parx Casino", State: domain.Pennsylvania, Source: paSource, PromotionsFound: 3, DiscoveredAt: mustTime("2024-01-09T13:15:00Z"), Website: "https://parxcasino.com", RegulatoryID: "PA-002"},
		{ID: "casino-008", Name: "Hollywood Casino at Penn National", State: domain.Pennsylvania, Source: paSource, PromotionsFound: 4, DiscoveredAt: mustTime("2024-01-08T10:20:00Z"), Website: "https://hollywoodcasino.com/penn-national", RegulatoryID: "PA-003"},
		{ID: "casino-009", Name: "Mountaineer Casino Racetrack & Resort", State: domain.WestVirginia, Source: wvSource, PromotionsFound: 2, DiscoveredAt: mustTime("2024-01-07T15:45:00Z"), Website: "https://mountaineercasino.com", RegulatoryID: "WV-001"},
		{ID: "casino-010", Name: "Mardi Gras Casino & Resort", State: domain.WestVirginia, Source: wvSource, PromotionsFound: 1, DiscoveredAt: mustTime("2024-01-06T12:00:00Z"), Website: "https://mardigrascasino.com", RegulatoryID: "WV-002"},
		{ID: "casino-011", Name: "Harrah's Atlantic City", State: domain.NewJersey, Source: njSource, PromotionsFound: 4, DiscoveredAt: mustTime("2024-01-05T09:30:00Z"), Website: "https://harrahs.com/atlantic-city", RegulatoryID: "NJ-004"},
		{ID: "casino-012", Name: "Borgata Hotel Casino & Spa", State: domain.NewJersey, Source: njSource, PromotionsFound: 7, DiscoveredAt: mustTime("2024-01-04T14:10:00Z"), Website: "https://borgata.com", RegulatoryID: "NJ-005"},
	}
}

// Comparisons returns ten pending comparisons, comp-001 through comp-010.
func (p *Provider) Comparisons() []promotions.Comparison {
	const (
		deposit  = "Deposit Bonus"
		standard = "Standard terms apply"
	)
	current := func(name, offerType string, dep, bonus float64, terms, wagering string) *promotions.Promotion {
		promo := offer(name, offerType, dep, bonus, terms, wagering, "2024-01-01T00:00:00Z")
		return &promo
	}
	discovered := func(name, offerType string, dep, bonus float64, terms, wagering string) promotions.Promotion {
		return offer(name, offerType, dep, bonus, terms, wagering, "2024-01-15T00:00:00Z")
	}
	comparison := func(id string, casino promotions.CasinoRef, cur *promotions.Promotion, disc promotions.Promotion, kind promotions.ComparisonType, created string) promotions.Comparison {
		ts := mustTime(created)
		return promotions.Comparison{
			ID:                  id,
			Casino:              casino,
			CurrentPromotion:    cur,
			DiscoveredPromotion: disc,
			ComparisonType:      kind,
			Status:              promotions.StatusPending,
			CreatedAt:           ts,
			UpdatedAt:           ts,
		}
	}

	return []promotions.Comparison{
		comparison("comp-001",
			promotions.CasinoRef{ID: 1, Name: "Borgata Hotel Casino & Spa", State: domain.NewJersey},
			current("Welcome Bonus", deposit, 100, 50, standard, "20x"),
			discovered("Welcome Bonus Plus", deposit, 100, 75, standard, "25x"),
			promotions.TypeBetter, "2024-01-15T10:30:00Z"),
		comparison("comp-002",
			promotions.CasinoRef{ID: 2, Name: "Golden Nugget Atlantic City", State: domain.NewJersey},
			current("No Deposit Bonus", "No Deposit Bonus", 0, 20, standard, "30x"),
			discovered("Free Spins Package", "Free Spins", 0, 25, standard, "35x"),
			promotions.TypeAlternative, "2024-01-15T10:25:00Z"),
		comparison("comp-003",
			promotions.CasinoRef{ID: 3, Name: "MotorCity Casino Hotel", State: domain.Michigan},
			nil,
			discovered("New Player Welcome Bonus", deposit, 200, 100, standard, "25x"),
			promotions.TypeNew, "2024-01-15T10:20:00Z"),
		comparison("comp-004",
			promotions.CasinoRef{ID: 4, Name: "Rivers Casino Philadelphia", State: domain.Pennsylvania},
			current("Match Bonus", deposit, 150, 75, standard, "20x"),
			discovered("Match Bonus Enhanced", deposit, 150, 100, standard, "20x"),
			promotions.TypeBetter, "2024-01-15T10:15:00Z"),
		comparison("comp-005",
			promotions.CasinoRef{ID: 5, Name: "Mountaineer Casino Racetrack & Resort", State: domain.WestVirginia},
			current("Weekend Bonus", deposit, 50, 25, standard, "15x"),
			discovered("Weekend Special", deposit, 75, 30, standard, "18x"),
			promotions.TypeAlternative, "2024-01-15T10:10:00Z"),
		comparison("comp-006",
			promotions.CasinoRef{ID: 6, Name: "FireKeepers Casino Hotel", State: domain.Michigan},
			nil,
			discovered("First Deposit Bonus", deposit, 100, 50, standard, "20x"),
			promotions.TypeNew, "2024-01-15T10:05:00Z"),
		comparison("comp-007",
			promotions.CasinoRef{ID: 7, Name: "Parx Casino", State: domain.Pennsylvania},
			current("VIP Bonus", deposit, 500, 200, "VIP terms apply", "30x"),
			discovered("VIP Bonus Premium", deposit, 500, 250, "VIP terms apply", "30x"),
			promotions.TypeBetter, "2024-01-15T10:00:00Z"),
		comparison("comp-008",
			promotions.CasinoRef{ID: 8, Name: "Harrah's Atlantic City", State: domain.NewJersey},
			current("Reload Bonus", deposit, 50, 20, standard, "15x"),
			discovered("Reload Bonus Plus", deposit, 50, 25, standard, "15x"),
			promotions.TypeBetter, "2024-01-15T09:55:00Z"),
		comparison("comp-009",
			promotions.CasinoRef{ID: 9, Name: "Tropicana Atlantic City", State: domain.NewJersey},
			nil,
			discovered("Summer Special", deposit, 75, 40, standard, "20x"),
			promotions.TypeNew, "2024-01-15T09:50:00Z"),
		comparison("comp-010",
			promotions.CasinoRef{ID: 10, Name: "Hollywood Casino at Penn National", State: domain.Pennsylvania},
			current("Cashback Bonus", "Cashback", 100, 10, standard, "10x"),
			discovered("Cashback Bonus Enhanced", "Cashback", 100, 15, standard, "10x"),
			promotions.TypeBetter, "2024-01-15T09:45:00Z"),
	}
}

// Users returns the eight accounts served by GET /users, in backend wire shape.
func (p *Provider) Users() []users.BackendUser {
	return []users.BackendUser{
		{ID: "1", Name: "John Doe", Age: 28, RegisterDate: "2024-01-15T00:00:00Z", Status: users.StatusActive},
		{ID: "2", Name: "Jane Smith", Age: 32, RegisterDate: "2024-02-20T00:00:00Z", Status: users.StatusActive},
		{ID: "3", Name: "Bob Johnson", Age: 45, RegisterDate: "2024-03-10T00:00:00Z", Status: users.StatusInactive},
		{ID: "4", Name: "Alice Williams", Age: 26, RegisterDate: "2024-04-05T00:00:00Z", Status: users.StatusPending},
		{ID: "5", Name: "Charlie Brown", Age: 38, RegisterDate: "2024-05-12T00:00:00Z", Status: users.StatusActive},
		{ID: "6", Name: "Diana Prince", Age: 29, RegisterDate: "2024-06-18T00:00:00Z", Status: users.StatusActive},
		{ID: "7", Name: "Edward Norton", Age: 41, RegisterDate: "2024-07-22T00:00:00Z", Status: users.StatusInactive},
		{ID: "8", Name: "Fiona Apple", Age: 35, RegisterDate: "2024-08-30T00:00:00Z", Status: users.StatusPending},
	}
}

func offer(name, offerType string, dep, bonus float64, terms, wagering, from string) promotions.Promotion {
	validFrom := mustTime(from)
	validUntil := mustTime("2024-12-31T23:59:59Z")
	return promotions.Promotion{
		OfferName:            name,
		OfferType:            offerType,
		ExpectedDeposit:      dep,
		ExpectedBonus:        bonus,
		TermsAndConditions:   terms,
		WageringRequirements: wagering,
		ValidFrom:            &validFrom,
		ValidUntil:           &validUntil,
	}
}

func mustTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return ts
}
