package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"renewal-tracker/internal/domain"
	"renewal-tracker/pkg/utils"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthService issues and revokes opaque bearer tokens. The raw token value
// is returned exactly once, at login; afterwards it only exists as a lookup
// key in the token store.
type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
}

func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	fields := map[string]string{}
	switch {
	case email == "":
		fields["email"] = "email is required"
	case !emailRx.MatchString(email):
		fields["email"] = "email must be a valid email address"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	// Unknown email and wrong password return the same error.
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := mintToken()
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	if err := s.tokens.Create(ctx, &domain.AccessToken{Token: tok, UserID: u.ID}); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return &LoginResult{Token: tok, User: u}, nil
}

// Logout revokes every token of the user, not just the one presented:
// a deliberate log-out-everywhere semantic. Revoking zero tokens is fine.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. Absent, unknown and
// revoked tokens all fail with ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if t == nil {
		return nil, domain.ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func mintToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
