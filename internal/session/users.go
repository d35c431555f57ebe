package session

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/query"
)

var UsersKey = query.Key{"users"}

// UsersAPI is the backend surface the users list needs.
type UsersAPI interface {
	GetUsers(ctx context.Context) ([]users.User, error)
}

// Users caches the adapted user list.
type Users struct {
	list *query.Query[[]users.User]
}

func NewUsers(api UsersAPI, cache *query.Cache, retry query.RetryPolicy, logger *slog.Logger, recorder *metrics.Recorder) *Users {
	list := query.New(cache, UsersKey, api.GetUsers, query.Options{Retry: retry, Metrics: recorder, Logger: logger})
	list.Observe()
	return &Users{list: list}
}

// Load returns cached users while fresh and fetches otherwise.
func (u *Users) Load(ctx context.Context) ([]users.User, error) {
	return u.list.Ensure(ctx)
}

func (u *Users) Refetch(ctx context.Context) ([]users.User, error) {
	return u.list.Fetch(ctx)
}

func (u *Users) State() query.State[[]users.User] {
	return u.list.State()
}

func (u *Users) Close() {
	u.list.Close()
}
