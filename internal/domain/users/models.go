package users

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/timeutil"
)

// Status is the account status reported by the backend.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// BackendUser is the wire shape of GET /users.
type BackendUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	RegisterDate string `json:"registerDate"`
	Status       Status `json:"status"`
}

// User is the client-side model with a parsed registration date.
type User struct {
	ID           string
	Name         string
	Age          int
	RegisterDate time.Time
	Status       Status
}

// FromBackend adapts the wire shape.
func FromBackend(b BackendUser) (User, error) {
	registered, err := timeutil.ParseTimestamp(b.RegisterDate)
	if err != nil {
		return User{}, fmt.Errorf("user %s: %w", b.ID, err)
	}
	return User{
		ID:           b.ID,
		Name:         b.Name,
		Age:          b.Age,
		RegisterDate: registered,
		Status:       b.Status,
	}, nil
}

// FromBackendList adapts every user, failing on the first malformed record.
func FromBackendList(in []BackendUser) ([]User, error) {
	out := make([]User, 0, len(in))
	for _, b := range in {
		u, err := FromBackend(b)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
