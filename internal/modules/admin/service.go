package admin

import (
	"context"
	"errors"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) (*UserList, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserList{Users: users, Total: total}, nil
}

// UpdateUserRole validates against the closed role set; arbitrary role
// strings never reach the database. Admins cannot change their own role,
// which keeps at least one admin reachable.
func (s *Service) UpdateUserRole(ctx context.Context, actorID, userID int64, role string) (*domain.User, error) {
	r := domain.Role(role)
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	if actorID == userID {
		return nil, ErrSelfDemotion
	}

	if err := s.users.UpdateRole(ctx, userID, r); err != nil {
		return nil, s.mapStoreErr(err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}
	return u, nil
}

func (s *Service) SetUserActive(ctx context.Context, actorID, userID int64, active bool) error {
	if actorID == userID && !active {
		return ErrSelfDeactivate
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return s.mapStoreErr(err)
	}
	return nil
}

// Roles lists every role with its capability set, for the admin UI.
func (s *Service) Roles() []RoleInfo {
	roles := domain.AllRoles()
	out := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleInfo{Role: r, Capabilities: r.Capabilities()})
	}
	return out
}

func (s *Service) mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
