package services

import (
	"context"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
)

type UsersService struct {
	api Requester
}

func NewUsersService(api Requester) *UsersService {
	return &UsersService{api: api}
}

// GetUsers fetches every user and adapts them to the client model.
func (s *UsersService) GetUsers(ctx context.Context) ([]users.User, error) {
	body, err := s.api.Get(ctx, EndpointUsers, nil)
	if err != nil {
		return nil, err
	}
	raw, err := apiclient.Decode[[]users.BackendUser](body)
	if err != nil {
		return nil, err
	}
	return users.FromBackendList(raw)
}
