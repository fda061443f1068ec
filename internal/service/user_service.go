package service

import (
	"context"
	"fmt"
	"strings"

	"renewal-tracker/internal/domain"
	"renewal-tracker/pkg/utils"
)

// UserService backs the admin listener: account seeding and removal.
// Registration is deliberately not exposed on the member API.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit, q)
}

func (s *UserService) Create(ctx context.Context, name, email, password string, admin bool) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	switch {
	case email == "":
		fields["email"] = "email is required"
	case !emailRx.MatchString(email):
		fields["email"] = "email must be a valid email address"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	} else if existing != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"email": "email is already in use",
		}}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Delete cascades: the repository removes the user's renewals and tokens in
// the same transaction.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
