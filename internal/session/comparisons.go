package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
	"github.com/preston-bernstein/casino-research-dashboard/internal/query"
)

var ComparisonsKey = query.Key{"promotions", "comparisons"}

const DefaultComparisonsPerPage = 10

// PromotionsAPI is the backend surface the comparisons table needs.
type PromotionsAPI interface {
	GetComparisons(ctx context.Context, f promotions.Filters) (promotions.Page, error)
	UpdateComparison(ctx context.Context, id string, action promotions.Action, notes string) (promotions.UpdateResponse, error)
}

type ComparisonsOptions struct {
	PerPage  int
	Debounce time.Duration
	Retry    query.RetryPolicy
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// ComparisonsView is what a consumer renders.
type ComparisonsView struct {
	Filters    promotions.Filters
	Items      []promotions.Comparison
	Pagination domain.Pagination
	Err        error
	Fetching   bool
}

// Comparisons is a page-number paginated view over GET /promotions/comparisons.
// Actions are applied directly and always followed by a refetch of the current page.
type Comparisons struct {
	api      PromotionsAPI
	cache    *query.Cache
	notifier notify.Notifier
	opts     ComparisonsOptions
	ctx      context.Context

	mu      sync.Mutex
	filters promotions.Filters
	page    *query.Query[promotions.Page]
	search  *query.Debouncer[string]
}

func NewComparisons(ctx context.Context, api PromotionsAPI, cache *query.Cache, notifier notify.Notifier, opts ComparisonsOptions) *Comparisons {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultComparisonsPerPage
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	c := &Comparisons{api: api, cache: cache, notifier: notifier, opts: opts, ctx: ctx}
	f := promotions.DefaultFilters()
	f.Limit = opts.PerPage
	c.filters = f
	c.page = c.newQuery(f)
	c.search = query.NewDebouncer(opts.Debounce, c.applyPromotionSearch)
	return c
}

func comparisonsKey(f promotions.Filters) query.Key {
	return ComparisonsKey.Append(
		string(f.Status),
		string(f.Insight),
		f.State,
		f.Casino,
		f.OfferType,
		f.PromotionID,
		strconv.Itoa(f.Page),
		strconv.Itoa(f.Limit),
	)
}

func (c *Comparisons) newQuery(f promotions.Filters) *query.Query[promotions.Page] {
	q := query.New(c.cache, comparisonsKey(f), func(ctx context.Context) (promotions.Page, error) {
		page, err := c.api.GetComparisons(ctx, f)
		if err != nil {
			return page, err
		}
		if err := validateComparisons(page.Data); err != nil {
			return promotions.Page{}, &apiclient.ApplicationError{Message: "inconsistent comparison", Err: err}
		}
		return page, nil
	}, query.Options{Retry: c.opts.Retry, Metrics: c.opts.Metrics, Logger: c.opts.Logger})
	q.Observe()
	return q
}

func validateComparisons(items []promotions.Comparison) error {
	var errs []error
	for _, item := range items {
		if err := item.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Comparisons) current() (promotions.Filters, *query.Query[promotions.Page]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters, c.page
}

// Load fetches the current page when nothing is cached for it.
func (c *Comparisons) Load(ctx context.Context) (ComparisonsView, error) {
	_, page := c.current()
	if page.State().HasData {
		return c.View(), nil
	}
	return c.Refetch(ctx)
}

// Refetch unconditionally reloads the current page.
func (c *Comparisons) Refetch(ctx context.Context) (ComparisonsView, error) {
	_, page := c.current()
	_, err := page.Fetch(ctx)
	return c.View(), err
}

// SetFilters applies new filters and resets to page 1.
func (c *Comparisons) SetFilters(ctx context.Context, f promotions.Filters) (ComparisonsView, error) {
	f.Page = 1
	if f.Limit <= 0 {
		f.Limit = c.opts.PerPage
	}
	return c.switchTo(ctx, f)
}

// SetPage moves to another page under the same filters.
func (c *Comparisons) SetPage(ctx context.Context, page int) (ComparisonsView, error) {
	if page < 1 {
		page = 1
	}
	f, _ := c.current()
	f.Page = page
	return c.switchTo(ctx, f)
}

func (c *Comparisons) switchTo(ctx context.Context, f promotions.Filters) (ComparisonsView, error) {
	c.mu.Lock()
	if f == c.filters {
		c.mu.Unlock()
		return c.Load(ctx)
	}
	old := c.page
	c.filters = f
	c.page = c.newQuery(f)
	c.mu.Unlock()

	old.Close()
	return c.Load(ctx)
}

// SetPromotionSearch records promotion id input; it is applied after the debounce window.
func (c *Comparisons) SetPromotionSearch(id string) {
	c.search.Push(id)
}

func (c *Comparisons) FlushPromotionSearch() bool {
	return c.search.Flush()
}

func (c *Comparisons) applyPromotionSearch(id string) {
	f, _ := c.current()
	f.PromotionID = id
	if _, err := c.SetFilters(c.ctx, f); err != nil {
		logging.Warn(c.opts.Logger, "comparisons search fetch failed", "error", err)
	}
}

// Apply submits a reviewer action and then refetches the current page whatever the outcome.
func (c *Comparisons) Apply(ctx context.Context, id string, action promotions.Action, notes string) (promotions.UpdateResponse, error) {
	type vars struct {
		id     string
		action promotions.Action
		notes  string
	}
	m := query.Mutation[vars, promotions.UpdateResponse]{
		Name: "comparison-" + string(action),
		Fn: func(ctx context.Context, v vars) (promotions.UpdateResponse, error) {
			res, err := c.api.UpdateComparison(ctx, v.id, v.action, v.notes)
			if err != nil {
				return res, err
			}
			if !res.Success {
				return res, &apiclient.ApplicationError{Message: res.Message}
			}
			return res, nil
		},
		OnSuccess: func(_ context.Context, v vars, res promotions.UpdateResponse) {
			msg := res.Message
			if msg == "" {
				msg = fmt.Sprintf("Comparison %s successfully", v.action.PastTense())
			}
			c.notifier.Notify(notify.Success("Success", msg))
		},
		OnError: func(_ context.Context, v vars, _ error) {
			c.notifier.Notify(notify.Destructive("Error", fmt.Sprintf("Failed to %s comparison. Please try again.", v.action)))
		},
		Metrics: c.opts.Metrics,
		Logger:  c.opts.Logger,
	}

	res, err := m.Run(ctx, vars{id: id, action: action, notes: notes})
	if _, refetchErr := c.Refetch(ctx); refetchErr != nil {
		logging.Warn(c.opts.Logger, "comparisons refetch after action failed",
			logging.FieldAction, string(action),
			"error", refetchErr,
		)
	}
	return res, err
}

func (c *Comparisons) View() ComparisonsView {
	f, page := c.current()
	st := page.State()
	return ComparisonsView{
		Filters:    f,
		Items:      st.Data.Data,
		Pagination: st.Data.Pagination,
		Err:        st.Err,
		Fetching:   st.Fetching,
	}
}

func (c *Comparisons) Close() {
	c.search.Stop()
	_, page := c.current()
	page.Close()
}
