package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func snapshotWith(status dashboard.ResearchState) dashboard.Snapshot {
	var data []dashboard.StateStat
	for i, st := range domain.TrackedStates() {
		data = append(data, dashboard.StateStat{
			State:            st,
			CasinosTracked:   10 * (i + 1),
			PromotionsActive: i + 1,
			MissingCasinos:   dashboard.IntPtr(i),
			Status:           status,
			LastUpdated:      testNow,
		})
	}
	return dashboard.Snapshot{Data: data, Timestamp: testNow}
}

type fakeDashboardAPI struct {
	mu          sync.Mutex
	snapshot    dashboard.Snapshot
	statsErr    error
	researchErr error
	statsCalls  int
	actions     []dashboard.ResearchAction
	onResearch  func(action dashboard.ResearchAction)
}

func (f *fakeDashboardAPI) GetStateStats(context.Context) (dashboard.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.statsErr != nil {
		return dashboard.Snapshot{}, f.statsErr
	}
	return f.snapshot, nil
}

func (f *fakeDashboardAPI) UpdateResearchStatus(_ context.Context, action dashboard.ResearchAction) (dashboard.ResearchStatus, error) {
	f.mu.Lock()
	f.actions = append(f.actions, action)
	err := f.researchErr
	hook := f.onResearch
	f.mu.Unlock()
	if err != nil {
		return dashboard.ResearchStatus{}, err
	}
	if hook != nil {
		hook(action)
	}
	status := dashboard.StatusResearching
	if action == dashboard.ActionStop {
		status = dashboard.StatusIdle
	}
	return dashboard.ResearchStatus{Success: true, Status: status}, nil
}

func (f *fakeDashboardAPI) set(snapshot dashboard.Snapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = snapshot
	f.statsErr = err
}

func (f *fakeDashboardAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsCalls
}

type fakeCasinosAPI struct {
	mu      sync.Mutex
	items   []casinos.MissingCasino
	err     error
	queries []casinos.Query
}

func newFakeCasinosAPI(n int) *fakeCasinosAPI {
	states := domain.TrackedStates()
	f := &fakeCasinosAPI{}
	for i := 0; i < n; i++ {
		f.items = append(f.items, casinos.MissingCasino{
			ID:    "mc-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Name:  "Casino " + string(rune('A'+i%26)),
			State: states[i%len(states)],
		})
	}
	return f
}

func (f *fakeCasinosAPI) GetMissingCasinos(_ context.Context, q casinos.Query) (casinos.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return casinos.Page{}, f.err
	}
	var filtered []casinos.MissingCasino
	for _, item := range f.items {
		if q.Filters.Matches(item) {
			filtered = append(filtered, item)
		}
	}
	start, end := domain.Window(len(filtered), q.Offset, q.Limit)
	return casinos.Page{
		Data:       filtered[start:end],
		Pagination: domain.PageByOffset(len(filtered), q.Limit, q.Offset),
	}, nil
}

func (f *fakeCasinosAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCasinosAPI) recorded() []casinos.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]casinos.Query(nil), f.queries...)
}

type fakePromotionsAPI struct {
	mu        sync.Mutex
	items     []promotions.Comparison
	filters   []promotions.Filters
	updateErr error
	updates   []string
}

func newFakePromotionsAPI() *fakePromotionsAPI {
	current := &promotions.Promotion{OfferName: "Old"}
	return &fakePromotionsAPI{items: []promotions.Comparison{
		{ID: "comp-001", Casino: promotions.CasinoRef{Name: "Golden Nugget", State: domain.NewJersey}, CurrentPromotion: current, ComparisonType: promotions.TypeBetter, Status: promotions.StatusPending},
		{ID: "comp-002", Casino: promotions.CasinoRef{Name: "BetMGM", State: domain.Michigan}, ComparisonType: promotions.TypeNew, Status: promotions.StatusPending},
		{ID: "comp-003", Casino: promotions.CasinoRef{Name: "Borgata", State: domain.NewJersey}, CurrentPromotion: current, ComparisonType: promotions.TypeAlternative, Status: promotions.StatusIgnored},
	}}
}

func (f *fakePromotionsAPI) GetComparisons(_ context.Context, filters promotions.Filters) (promotions.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filters)
	var matched []promotions.Comparison
	for _, item := range f.items {
		if filters.Matches(item) {
			matched = append(matched, item)
		}
	}
	start, end := domain.Window(len(matched), (filters.Page-1)*filters.Limit, filters.Limit)
	return promotions.Page{Data: matched[start:end], Pagination: domain.PageByNumber(len(matched), filters.Limit, filters.Page)}, nil
}

func (f *fakePromotionsAPI) UpdateComparison(_ context.Context, id string, action promotions.Action, _ string) (promotions.UpdateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+":"+string(action))
	if f.updateErr != nil {
		return promotions.UpdateResponse{}, f.updateErr
	}
	for i, item := range f.items {
		if item.ID == id {
			updated := item.Apply(action, testNow)
			f.items[i] = updated
			return promotions.UpdateResponse{Success: true, Message: "Comparison " + action.PastTense() + " successfully", Comparison: updated}, nil
		}
	}
	return promotions.UpdateResponse{}, &notFound{id: id}
}

func (f *fakePromotionsAPI) fetches() []promotions.Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]promotions.Filters(nil), f.filters...)
}

type notFound struct{ id string }

func (e *notFound) Error() string { return "comparison " + strings.TrimSpace(e.id) + " not found" }
