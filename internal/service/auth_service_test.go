package service

import (
	"context"
	"errors"
	"testing"

	"renewal-tracker/internal/domain"
	"renewal-tracker/pkg/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	lookups int
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return f.byID[id], nil
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.lookups++
	return f.byEmail[email], nil
}
func (f *fakeUserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeTokenRepo struct {
	tokens map[string]*domain.AccessToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*domain.AccessToken{}}
}

func (f *fakeTokenRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	f.tokens[t.Token] = t
	return nil
}
func (f *fakeTokenRepo) FindByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	return f.tokens[token], nil
}
func (f *fakeTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

func testUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{ID: "u1", Name: "Alice", Email: email, PasswordHash: hash}
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	u := testUser(t, "alice@example.com", "secret123")
	users := &fakeUserRepo{
		byEmail: map[string]*domain.User{u.Email: u},
		byID:    map[string]*domain.User{u.ID: u},
	}
	tokens := newFakeTokenRepo()
	return NewAuthService(users, tokens), users, tokens
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("login returned empty token")
	}
	if res.User.ID != "u1" {
		t.Fatalf("login user = %q, want u1", res.User.ID)
	}

	u, err := svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("authenticate resolved %q, want u1", u.ID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()

	// Wrong password and unknown email must be indistinguishable.
	_, err1 := svc.Login(ctx, "alice@example.com", "wrong")
	_, err2 := svc.Login(ctx, "nobody@example.com", "secret123")
	if !errors.Is(err1, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err1)
	}
	if !errors.Is(err2, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err2)
	}
	if err1.Error() != err2.Error() {
		t.Fatalf("error wording differs: %q vs %q", err1, err2)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("failed logins persisted %d tokens, want 0", len(tokens.tokens))
	}
}

func TestLoginValidationBeforeLookup(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "not-an-email", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Error("missing email field error")
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Error("missing password field error")
	}
	if users.lookups != 0 {
		t.Fatalf("credential store consulted %d times before validation passed", users.lookups)
	}
}

func TestLogoutRevokesEverySession(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()

	// Two concurrent logins are independently valid.
	r1, err := svc.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login 1: %v", err)
	}
	r2, err := svc.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}
	if r1.Token == r2.Token {
		t.Fatal("two logins minted the same token")
	}

	if err := svc.Logout(ctx, "u1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	for _, tok := range []string{r1.Token, r2.Token} {
		if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("token still valid after logout: %v", err)
		}
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("%d tokens survived logout", len(tokens.tokens))
	}

	// Logging out with zero live tokens is not an error.
	if err := svc.Logout(ctx, "u1"); err != nil {
		t.Fatalf("idempotent logout: %v", err)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "deadbeef"} {
		if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("Authenticate(%q) = %v, want ErrUnauthenticated", tok, err)
		}
	}
}
