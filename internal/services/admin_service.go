package services

import (
	"context"
	"errors"
	"strconv"

	"fintrack/internal/domain"
	"fintrack/internal/events"
	"fintrack/internal/repos"
	"fintrack/internal/validate"
)

type AdminService struct {
	Users  *repos.UserRepo
	Events events.Publisher
}

func NewAdminService(users *repos.UserRepo, pub events.Publisher) *AdminService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AdminService{Users: users, Events: pub}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users.List(ctx)
}

// UpdateRole sets the role of user id. The user must exist before the role is
// checked, so an unknown id reports not found even with a bad role.
func (s *AdminService) UpdateRole(ctx context.Context, actor domain.Principal, id int64, role string) (*domain.User, error) {
	before, err := s.Users.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fail(ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	r, err := domain.ParseRole(role)
	if err != nil || !r.Assignable() {
		return nil, fail(ErrValidation, "invalid role. Must be 'user' or 'admin'")
	}
	u, err := s.Users.UpdateRole(ctx, id, r)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fail(ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	e := events.New(events.UserRoleChanged, u.ID)
	e.ActorID = actor.UserID
	e.Attrs = map[string]string{
		"from":  string(before.Role),
		"to":    string(u.Role),
		"actor": strconv.FormatInt(actor.UserID, 10),
	}
	publish(ctx, s.Events, e)
	return u, nil
}

// SetRoleByEmail is the operator path used by the admin CLI. Unlike the API,
// it may assign guest.
func (s *AdminService) SetRoleByEmail(ctx context.Context, email, role string) (*domain.User, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, fail(ErrValidation, "invalid role %q", role)
	}
	email, _ = validate.Email(email)
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fail(ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	updated, err := s.Users.UpdateRole(ctx, u.ID, r)
	if err != nil {
		return nil, err
	}
	e := events.New(events.UserRoleChanged, u.ID)
	e.Attrs = map[string]string{"from": string(u.Role), "to": string(r), "actor": "cli"}
	publish(ctx, s.Events, e)
	return updated, nil
}
