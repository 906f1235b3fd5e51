package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/dance-studio-admin/internal/config"
	"github.com/iliyamo/dance-studio-admin/internal/middleware"
	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/repository"
	"github.com/iliyamo/dance-studio-admin/internal/utils"
)

const testSecret = "test-secret"

type fakeAdmins struct {
	byEmail map[string]model.Admin
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	a, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return model.Admin{}, repository.ErrAdminNotFound
	}
	return a, nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id uint64) (model.Admin, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrAdminNotFound
}

type fakeSessions struct {
	mu      sync.Mutex
	live    map[string]uint64
	revoked []uint64
	// beforeRevoke runs between Validate and Revoke of a refresh
	beforeRevoke func()
}

func (f *fakeSessions) Store(_ context.Context, adminID uint64, hash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[hash] = adminID
	return nil
}

func (f *fakeSessions) Validate(_ context.Context, hash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.live[hash]
	if !ok {
		return 0, repository.ErrSessionInvalid
	}
	return id, nil
}

func (f *fakeSessions) Revoke(_ context.Context, hash string) error {
	if f.beforeRevoke != nil {
		f.beforeRevoke()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.live[hash]; !ok {
		return repository.ErrSessionInvalid
	}
	delete(f.live, hash)
	return nil
}

func (f *fakeSessions) RevokeAll(_ context.Context, adminID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for h, id := range f.live {
		if id == adminID {
			delete(f.live, h)
		}
	}
	f.revoked = append(f.revoked, adminID)
	return nil
}

func newAuthFixture(t *testing.T) (*echo.Echo, *fakeSessions) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	admins := &fakeAdmins{byEmail: map[string]model.Admin{
		"owner@studio.test": {ID: 1, Email: "owner@studio.test", PasswordHash: string(hash), Role: model.RoleOwner, IsActive: true},
		"gone@studio.test":  {ID: 2, Email: "gone@studio.test", PasswordHash: string(hash), Role: model.RoleStaff, IsActive: false},
	}}
	sessions := &fakeSessions{live: map[string]uint64{}}
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7}
	h := NewAuthHandler(cfg, admins, sessions)

	e := echo.New()
	e.Validator = NewValidator()
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/refresh", h.Refresh)
	e.POST("/v1/auth/logout", h.Logout)
	e.GET("/v1/me", h.Me, middleware.JWTAuth(testSecret))
	return e, sessions
}

func post(e *echo.Echo, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo) authResp {
	t.Helper()
	rec := post(e, "/v1/auth/login", `{"email":"owner@studio.test","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLogin(t *testing.T) {
	e, sessions := newAuthFixture(t)
	resp := login(t, e)
	assert.Equal(t, model.RoleOwner, resp.Admin.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.Len(t, resp.Refresh.Token, 96)
	assert.Len(t, sessions.live, 1)

	claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
	require.NoError(t, err)
	id, err := claims.AdminID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestLoginFailures(t *testing.T) {
	e, _ := newAuthFixture(t)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"email":"owner@studio.test","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"who@studio.test","password":"s3cret-pass"}`, http.StatusUnauthorized},
		{"deactivated", `{"email":"gone@studio.test","password":"s3cret-pass"}`, http.StatusForbidden},
		{"bad email", `{"email":"owner","password":"s3cret-pass"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, post(e, "/v1/auth/login", tc.body, nil).Code)
		})
	}
}

func TestRefreshRotates(t *testing.T) {
	e, sessions := newAuthFixture(t)
	first := login(t, e)

	rec := post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var second authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.Refresh.Token, second.Refresh.Token)
	assert.Len(t, sessions.live, 1)

	rec = post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusBadRequest, post(e, "/v1/auth/refresh", `{}`, nil).Code)
}

func TestRefreshLosesRaceForSameToken(t *testing.T) {
	e, sessions := newAuthFixture(t)
	first := login(t, e)
	hash := utils.HashRefreshRaw(first.Refresh.Token)

	// another refresh consumes the token after this one validated it
	sessions.beforeRevoke = func() {
		sessions.mu.Lock()
		delete(sessions.live, hash)
		sessions.mu.Unlock()
	}
	rec := post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sessions.live, "no new session may be issued")
}

func TestLogout(t *testing.T) {
	e, sessions := newAuthFixture(t)
	resp := login(t, e)

	rec := post(e, "/v1/auth/logout", `{"refresh_token":"`+resp.Refresh.Token+`"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, sessions.live)

	resp = login(t, e)
	rec = post(e, "/v1/auth/logout", `{}`, http.Header{"Authorization": {"Bearer " + resp.Access.Token}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uint64{1}, sessions.revoked)
	assert.Empty(t, sessions.live)

	assert.Equal(t, http.StatusBadRequest, post(e, "/v1/auth/logout", `{}`, nil).Code)
}

func TestMe(t *testing.T) {
	e, _ := newAuthFixture(t)
	resp := login(t, e)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.Access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"owner@studio.test"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	h := &HealthHandler{Checks: map[string]Pinger{
		"redis": func(context.Context) error { return nil },
	}}
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.Checks["mysql"] = func(context.Context) error { return errors.New("down") }
	rec = httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mysql":"down"`)
}
