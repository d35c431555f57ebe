package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/query"
)

var MissingCasinosKey = query.Key{"missing-casinos"}

const DefaultMissingPageSize = 20

// MissingCasinosAPI is the backend surface the missing casinos list needs.
type MissingCasinosAPI interface {
	GetMissingCasinos(ctx context.Context, q casinos.Query) (casinos.Page, error)
}

// CasinoPages is the accumulated result of an offset-paginated list.
type CasinoPages struct {
	Pages []casinos.Page
}

// Items flattens every fetched page in order.
func (p CasinoPages) Items() []casinos.MissingCasino {
	var out []casinos.MissingCasino
	for _, page := range p.Pages {
		out = append(out, page.Data...)
	}
	return out
}

// Total is taken from the first page.
func (p CasinoPages) Total() int {
	if len(p.Pages) == 0 {
		return 0
	}
	return p.Pages[0].Pagination.Total
}

func (p CasinoPages) HasMore() bool {
	if len(p.Pages) == 0 {
		return false
	}
	return p.Pages[len(p.Pages)-1].Pagination.HasNext
}

type MissingCasinosOptions struct {
	PageSize int
	Debounce time.Duration
	Retry    query.RetryPolicy
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// MissingCasinosView is what a consumer renders.
type MissingCasinosView struct {
	Filters       casinos.Filters
	Items         []casinos.MissingCasino
	Total         int
	HasMore       bool
	Pages         int
	Err           error
	Fetching      bool
	SearchPending bool
}

// MissingCasinos is an infinite list over GET /missing-casinos. Any filter change
// drops the accumulated pages and restarts at offset 0.
type MissingCasinos struct {
	api   MissingCasinosAPI
	cache *query.Cache
	opts  MissingCasinosOptions
	ctx   context.Context

	mu      sync.Mutex
	filters casinos.Filters
	list    *query.Query[CasinoPages]
	search  *query.Debouncer[string]
}

// NewMissingCasinos builds the list. ctx bounds fetches triggered by debounced search input.
func NewMissingCasinos(ctx context.Context, api MissingCasinosAPI, cache *query.Cache, opts MissingCasinosOptions) *MissingCasinos {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultMissingPageSize
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m := &MissingCasinos{api: api, cache: cache, opts: opts, ctx: ctx}
	m.list = m.newQuery(casinos.Filters{})
	m.search = query.NewDebouncer(opts.Debounce, m.applySearch)
	return m
}

func missingCasinosKey(f casinos.Filters) query.Key {
	return MissingCasinosKey.Append(f.State, f.Search)
}

func (m *MissingCasinos) newQuery(f casinos.Filters) *query.Query[CasinoPages] {
	q := query.New(m.cache, missingCasinosKey(f), func(ctx context.Context) (CasinoPages, error) {
		return m.reload(ctx, f)
	}, m.queryOptions())
	q.Observe()
	return q
}

func (m *MissingCasinos) queryOptions() query.Options {
	return query.Options{Retry: m.opts.Retry, Metrics: m.opts.Metrics, Logger: m.opts.Logger}
}

// reload refetches as many pages as are currently loaded, starting from offset 0.
func (m *MissingCasinos) reload(ctx context.Context, f casinos.Filters) (CasinoPages, error) {
	want := 1
	if current, ok := query.Peek[CasinoPages](m.cache, missingCasinosKey(f)); ok && len(current.Pages) > want {
		want = len(current.Pages)
	}
	var out CasinoPages
	for i := 0; i < want; i++ {
		page, err := m.fetchPage(ctx, f, i*m.opts.PageSize)
		if err != nil {
			return CasinoPages{}, err
		}
		out.Pages = append(out.Pages, page)
		if !page.Pagination.HasNext {
			break
		}
	}
	return out, nil
}

func (m *MissingCasinos) fetchPage(ctx context.Context, f casinos.Filters, offset int) (casinos.Page, error) {
	return m.api.GetMissingCasinos(ctx, casinos.Query{Filters: f, Limit: m.opts.PageSize, Offset: offset})
}

func (m *MissingCasinos) current() (casinos.Filters, *query.Query[CasinoPages]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters, m.list
}

// Load fetches the first page when nothing is cached for the active filters.
func (m *MissingCasinos) Load(ctx context.Context) (MissingCasinosView, error) {
	_, list := m.current()
	if st := list.State(); st.HasData {
		return m.View(), nil
	}
	_, err := list.Fetch(ctx)
	return m.View(), err
}

// FetchNextPage appends the next offset window while the server reports more records.
func (m *MissingCasinos) FetchNextPage(ctx context.Context) (MissingCasinosView, error) {
	f, list := m.current()
	st := list.State()
	if !st.HasData {
		return m.Load(ctx)
	}
	if !st.Data.HasMore() {
		return m.View(), nil
	}

	next := query.New(m.cache, list.Key(), func(ctx context.Context) (CasinoPages, error) {
		prev, _ := query.Peek[CasinoPages](m.cache, list.Key())
		page, err := m.fetchPage(ctx, f, len(prev.Pages)*m.opts.PageSize)
		if err != nil {
			return CasinoPages{}, err
		}
		pages := make([]casinos.Page, 0, len(prev.Pages)+1)
		pages = append(pages, prev.Pages...)
		return CasinoPages{Pages: append(pages, page)}, nil
	}, m.queryOptions())
	_, err := next.Fetch(ctx)
	return m.View(), err
}

// SetFilters switches to new filters. The previous filters' pages are removed
// from the cache and the first page for the new filters is fetched.
func (m *MissingCasinos) SetFilters(ctx context.Context, f casinos.Filters) (MissingCasinosView, error) {
	f = f.Normalized()

	m.mu.Lock()
	if f == m.filters {
		m.mu.Unlock()
		return m.Load(ctx)
	}
	old := m.list
	m.filters = f
	m.list = m.newQuery(f)
	m.mu.Unlock()

	old.Close()
	removed := m.cache.Remove(old.Key())
	logging.Debug(m.opts.Logger, "missing casinos filters changed",
		logging.FieldQueryKey, old.Key().String(),
		logging.FieldCount, removed,
	)
	return m.Load(ctx)
}

// SetState changes the state filter immediately.
func (m *MissingCasinos) SetState(ctx context.Context, state string) (MissingCasinosView, error) {
	f, _ := m.current()
	f.State = state
	return m.SetFilters(ctx, f)
}

// SetSearch records search input; it becomes part of the filters after the debounce window.
func (m *MissingCasinos) SetSearch(text string) {
	m.search.Push(text)
}

// FlushSearch applies pending search input now.
func (m *MissingCasinos) FlushSearch() bool {
	return m.search.Flush()
}

func (m *MissingCasinos) applySearch(text string) {
	f, _ := m.current()
	f.Search = text
	if _, err := m.SetFilters(m.ctx, f); err != nil {
		logging.Warn(m.opts.Logger, "missing casinos search fetch failed", "error", err)
	}
}

func (m *MissingCasinos) View() MissingCasinosView {
	f, list := m.current()
	st := list.State()
	return MissingCasinosView{
		Filters:       f,
		Items:         st.Data.Items(),
		Total:         st.Data.Total(),
		HasMore:       st.Data.HasMore(),
		Pages:         len(st.Data.Pages),
		Err:           st.Err,
		Fetching:      st.Fetching,
		SearchPending: m.search.Pending(),
	}
}

// Close stops the debouncer and releases the active query.
func (m *MissingCasinos) Close() {
	m.search.Stop()
	_, list := m.current()
	list.Close()
}
