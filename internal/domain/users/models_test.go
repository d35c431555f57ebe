package users

import (
	"testing"
	"time"
)

func TestFromBackendParsesRegisterDate(t *testing.T) {
	u, err := FromBackend(BackendUser{ID: "1", Name: "John Doe", Age: 28, RegisterDate: "2024-01-15T00:00:00Z", Status: StatusActive})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !u.RegisterDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected register date %s", u.RegisterDate)
	}
	if u.Name != "John Doe" || u.Status != StatusActive {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestFromBackendListFailsOnBadDate(t *testing.T) {
	_, err := FromBackendList([]BackendUser{
		{ID: "1", RegisterDate: "2024-01-15T00:00:00Z"},
		{ID: "2", RegisterDate: "someday"},
	})
	if err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
