package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renewal-tracker/internal/domain"
	"renewal-tracker/internal/service"
	"renewal-tracker/internal/transport/http/handler"
	"renewal-tracker/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

// In-memory stores backing the real services, so requests exercise the full
// stack from routing down to the repository contract.

type memStores struct {
	users    map[string]*domain.User
	tokens   map[string]*domain.AccessToken
	renewals map[string]domain.Renewal
}

func newMemStores() *memStores {
	return &memStores{
		users:    map[string]*domain.User{},
		tokens:   map[string]*domain.AccessToken{},
		renewals: map[string]domain.Renewal{},
	}
}

type memUserRepo struct{ s *memStores }

func (r memUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.s.users[u.ID] = u
	return nil
}
func (r memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.s.users[id], nil
}
func (r memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r memUserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.s.users {
		if q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q) {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}
func (r memUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	for k, ren := range r.s.renewals {
		if ren.UserID == id {
			delete(r.s.renewals, k)
		}
	}
	for k, t := range r.s.tokens {
		if t.UserID == id {
			delete(r.s.tokens, k)
		}
	}
	return nil
}

type memTokenRepo struct{ s *memStores }

func (r memTokenRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	r.s.tokens[t.Token] = t
	return nil
}
func (r memTokenRepo) FindByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	return r.s.tokens[token], nil
}
func (r memTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	for k, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, k)
		}
	}
	return nil
}

type memRenewalRepo struct{ s *memStores }

func (r memRenewalRepo) Create(ctx context.Context, ren *domain.Renewal) error {
	r.s.renewals[ren.ID] = *ren
	return nil
}
func (r memRenewalRepo) FindByID(ctx context.Context, id string) (*domain.Renewal, error) {
	if ren, ok := r.s.renewals[id]; ok {
		cp := ren
		return &cp, nil
	}
	return nil, nil
}
func (r memRenewalRepo) List(ctx context.Context) ([]domain.Renewal, error) {
	out := make([]domain.Renewal, 0, len(r.s.renewals))
	for _, ren := range r.s.renewals {
		out = append(out, ren)
	}
	return out, nil
}
func (r memRenewalRepo) ListByUser(ctx context.Context, userID string) ([]domain.Renewal, error) {
	var out []domain.Renewal
	for _, ren := range r.s.renewals {
		if ren.UserID == userID {
			out = append(out, ren)
		}
	}
	return out, nil
}
func (r memRenewalRepo) Update(ctx context.Context, ren *domain.Renewal) error {
	r.s.renewals[ren.ID] = *ren
	return nil
}
func (r memRenewalRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.s.renewals[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.renewals, id)
	return nil
}

type testEnv struct {
	stores  *memStores
	engine  *gin.Engine
	authSvc *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := newMemStores()
	seedUser(t, s, "u-alice", "Alice", "alice@example.com", "password1", false)
	seedUser(t, s, "u-bob", "Bob", "bob@example.com", "password2", false)
	seedUser(t, s, "u-root", "Root", "root@example.com", "rootpass1", true)

	authSvc := service.NewAuthService(memUserRepo{s}, memTokenRepo{s})
	renewalSvc := service.NewRenewalService(memRenewalRepo{s}, nil, 0)
	engine := NewAPIEngine(zap.NewNop(),
		handler.NewAuthHandler(authSvc),
		handler.NewRenewalHandler(renewalSvc),
		authSvc,
	)
	return &testEnv{stores: s, engine: engine, authSvc: authSvc}
}

func seedUser(t *testing.T, s *memStores, id, name, email, password string, admin bool) {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s.users[id] = &domain.User{ID: id, Name: name, Email: email, PasswordHash: hash, IsAdmin: admin}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, w.Code, w.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out.Token
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body)
	}
	return env
}

func validRenewalBody() map[string]any {
	return map[string]any{
		"service_name":  "Netflix",
		"service_type":  "streaming",
		"provider":      "Netflix Inc",
		"start_date":    "2025-01-01",
		"end_date":      "2099-02-01",
		"cost":          15.99,
		"reminder_type": "email",
	}
}

func TestLoginSuccessShape(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "password1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body)
	}
	var out struct {
		Status   string `json:"status"`
		UserType string `json:"user_type"`
		Token    string `json:"token"`
		User     struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "success" || out.UserType != "user" || out.Token == "" {
		t.Fatalf("unexpected body: %s", w.Body)
	}
	if out.User.Email != "alice@example.com" || out.User.Name != "Alice" {
		t.Fatalf("unexpected user: %s", w.Body)
	}
}

func TestLoginAdminUserType(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "root@example.com", "password": "rootpass1",
	})
	var out struct {
		UserType string `json:"user_type"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.UserType != "admin" {
		t.Fatalf("user_type = %q, want admin", out.UserType)
	}
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "not-an-email", "password": "",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("validation: status %d, want 422", w.Code)
	}
	e := decodeEnvelope(t, w)
	if _, ok := e.Errors["email"]; !ok {
		t.Fatalf("missing email error: %s", w.Body)
	}
	if _, ok := e.Errors["password"]; !ok {
		t.Fatalf("missing password error: %s", w.Body)
	}
}

func TestBearerGateRejectsBeforeHandlers(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/renewals", "/renewals/statistics", "/user/profile"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d, want 401", path, w.Code)
		}
	}
	w := env.do(t, http.MethodGet, "/renewals", "deadbeef", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", w.Code)
	}
}

func TestRenewalCRUD(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "alice@example.com", "password1")

	w := env.do(t, http.MethodPost, "/renewals", tok, validRenewalBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body)
	}
	var created domain.Renewal
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.UserID != "u-alice" {
		t.Fatalf("unexpected created renewal: %+v", created)
	}

	w = env.do(t, http.MethodGet, "/renewals/"+created.ID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}

	w = env.do(t, http.MethodPatch, "/renewals/"+created.ID, tok, map[string]any{"cost": 9.99})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d, body %s", w.Code, w.Body)
	}
	var updated domain.Renewal
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Cost != 9.99 || updated.ServiceName != "Netflix" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	w = env.do(t, http.MethodDelete, "/renewals/"+created.ID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/renewals/"+created.ID, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/renewals/"+created.ID, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: status %d, want 404", w.Code)
	}
}

func TestCreateRenewalValidation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "alice@example.com", "password1")

	body := validRenewalBody()
	body["start_date"] = "2025-03-01"
	body["end_date"] = "2025-02-01"
	w := env.do(t, http.MethodPost, "/renewals", tok, body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422; body %s", w.Code, w.Body)
	}
	e := decodeEnvelope(t, w)
	if _, ok := e.Errors["end_date"]; !ok {
		t.Fatalf("missing end_date error: %s", w.Body)
	}
	if len(env.stores.renewals) != 0 {
		t.Fatal("invalid renewal was persisted")
	}
}

func TestOwnerScopedList(t *testing.T) {
	env := newTestEnv(t)
	tokA := env.login(t, "alice@example.com", "password1")
	tokB := env.login(t, "bob@example.com", "password2")

	if w := env.do(t, http.MethodPost, "/renewals", tokA, validRenewalBody()); w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/renewals/user", tokB, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var forB []domain.Renewal
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &forB); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(forB) != 0 {
		t.Fatalf("bob sees %d of alice's renewals", len(forB))
	}

	w = env.do(t, http.MethodGet, "/renewals/user", tokA, nil)
	var forA []domain.Renewal
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &forA); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(forA) != 1 {
		t.Fatalf("alice sees %d renewals, want 1", len(forA))
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "alice@example.com", "password1")

	if w := env.do(t, http.MethodPost, "/renewals", tok, validRenewalBody()); w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/renewals/statistics", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var st domain.Statistics
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.TotalCount != 1 {
		t.Fatalf("total_count = %d, want 1", st.TotalCount)
	}
	if st.TotalCost != 15 { // 15.99 truncated
		t.Fatalf("total_cost = %d, want 15", st.TotalCost)
	}
}

func TestStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "alice@example.com", "password1")

	w := env.do(t, http.MethodGet, "/renewals/status/bogus", tok, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus filter: status %d, want 400", w.Code)
	}
	w = env.do(t, http.MethodGet, "/renewals/status/active", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("active filter: status %d, want 200", w.Code)
	}
}

func TestLogoutRevokesAllSessions(t *testing.T) {
	env := newTestEnv(t)
	tok1 := env.login(t, "alice@example.com", "password1")
	tok2 := env.login(t, "alice@example.com", "password1")

	w := env.do(t, http.MethodPost, "/logout", tok1, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}

	// The other session died with it.
	for _, tok := range []string{tok1, tok2} {
		w := env.do(t, http.MethodGet, "/user/profile", tok, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("token survived logout: status %d", w.Code)
		}
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "alice@example.com", "password1")

	w := env.do(t, http.MethodGet, "/user/profile", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var out struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success {
		t.Fatalf("success = false: %s", w.Body)
	}
}
