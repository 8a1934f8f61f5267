package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/cache"
	"github.com/jonathan/careerpage/internal/config"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/sections"
	"github.com/jonathan/careerpage/internal/server/middleware"
	"github.com/jonathan/careerpage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRecruiterCode = "hire-me"

func testConfig() *config.Config {
	return &config.Config{
		Port:                     8080,
		PublicBaseURL:            "https://jobs.example.com",
		DatabaseURL:              "postgres://unused",
		JWTSecret:                "test-secret-key-for-testing-only",
		JWTExpirationHours:       24,
		AuthCookieName:           "token",
		AuthTrustIdentityHeaders: true,
		RecruiterCode:            testRecruiterCode,
		BcryptCost:               10,
		LogLevel:                 "info",
		LogFormat:                "json",
		RateLimitEnabled:         false,
		RateLimitDefaultLimit:    100,
		RateLimitDefaultWindow:   time.Minute,
	}
}

// testEnv is a server over an in-memory store.
type testEnv struct {
	t     *testing.T
	srv   *Server
	store *memStore
}

func newTestEnv(t *testing.T, opts ...func(*config.Config, *Deps)) *testEnv {
	t.Helper()
	store := newMemStore()
	cfg := testConfig()
	deps := Deps{Store: store, Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg, &deps)
	}

	srv, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return &testEnv{t: t, srv: srv, store: store}
}

func withCache(c cache.PageCache) func(*config.Config, *Deps) {
	return func(_ *config.Config, d *Deps) { d.Cache = c }
}

// do sends a request through the full middleware chain. A non-nil id is
// presented through the trusted identity headers.
func (e *testEnv) do(method, path string, body any, id *middleware.Identity) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil {
		req.Header.Set(middleware.HeaderUserID, id.UserID.String())
		req.Header.Set(middleware.HeaderUserRole, string(id.Role))
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) user(name string, role types.Role) middleware.Identity {
	e.t.Helper()
	u, err := e.store.CreateUser(context.Background(), name, strings.ToLower(name)+"@example.com", "unused-hash", role)
	require.NoError(e.t, err)
	return middleware.Identity{UserID: u.ID, Role: role}
}

func (e *testEnv) recruiter(name string) middleware.Identity {
	return e.user(name, types.RoleRecruiter)
}

func (e *testEnv) candidate(name string) middleware.Identity {
	return e.user(name, types.RoleCandidate)
}

func (e *testEnv) company(owner middleware.Identity, slug string, published bool, list sections.List) *db.Company {
	e.t.Helper()
	ctx := context.Background()
	c, err := e.store.CreateCompany(ctx, &db.Company{
		Name:      strings.ToUpper(slug[:1]) + slug[1:],
		Slug:      slug,
		Sections:  list,
		CreatedBy: owner.UserID,
	})
	require.NoError(e.t, err)
	if published {
		c, err = e.store.SetCompanyPublished(ctx, c.ID, true)
		require.NoError(e.t, err)
	}
	return c
}

func (e *testEnv) job(company *db.Company, title, slug string) *db.Job {
	e.t.Helper()
	j, err := e.store.CreateJob(context.Background(), &db.Job{
		CompanyID:      company.ID,
		Title:          title,
		Location:       "Berlin",
		Department:     "Engineering",
		EmploymentType: "Full-time",
		Experience:     "Senior",
		JobType:        "Permanent",
		SalaryRange:    "80k-100k",
		Slug:           slug,
		WorkPolicy:     "Hybrid",
		PostedDaysAgo:  3,
	})
	require.NoError(e.t, err)
	return j
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(testConfig(), Deps{})
	assert.Error(t, err)
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := New(cfg, Deps{Store: newMemStore()})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	e.store.pingErr = errStoreDown
	w = e.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.do(http.MethodGet, "/health", nil, nil)

	w := e.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "careerpage_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodOptions, "/api/company/acme", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestServerError_DoesNotLeakCause(t *testing.T) {
	e := newTestEnv(t)
	e.store.failWith = errStoreDown

	w := e.do(http.MethodGet, "/api/company/acme", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", errorOf(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRateLimit_LoginTier(t *testing.T) {
	e := newTestEnv(t, func(c *config.Config, _ *Deps) { c.RateLimitEnabled = true })

	body := types.LoginRequest{Email: "nobody@example.com", Password: "wrong-password"}
	var last *httptest.ResponseRecorder
	for range 5 {
		last = e.do(http.MethodPost, "/api/auth/login", body, nil)
		require.Equal(t, http.StatusUnauthorized, last.Code)
	}
	assert.Equal(t, "10", last.Header().Get("X-RateLimit-Limit"))

	w := e.do(http.MethodPost, "/api/auth/login", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	resp := decode[map[string]any](t, w)
	assert.Equal(t, "Too many requests", resp["error"])
	assert.EqualValues(t, 10, resp["limit"])

	// Other tiers are unaffected.
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/health", nil, nil).Code)
}

func TestRoutes_UnknownPath(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/nope/nothing/here", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_IdentityRequired(t *testing.T) {
	e := newTestEnv(t)
	id := uuid.New().String()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/company"},
		{http.MethodPost, "/api/companies"},
		{http.MethodPut, "/api/company/acme"},
		{http.MethodGet, "/api/company/acme/edit"},
		{http.MethodPost, "/api/company/acme/publish"},
		{http.MethodDelete, "/api/company/acme/publish"},
		{http.MethodGet, "/api/company/acme/stats"},
		{http.MethodGet, "/api/company/acme/applications"},
		{http.MethodPost, "/api/company/acme/sections"},
		{http.MethodPatch, "/api/company/acme/sections/s1"},
		{http.MethodDelete, "/api/company/acme/sections/s1"},
		{http.MethodPost, "/api/company/acme/sections/s1/move"},
		{http.MethodPost, "/api/jobs"},
		{http.MethodPut, "/api/jobs/" + id},
		{http.MethodDelete, "/api/jobs/" + id},
		{http.MethodPost, "/api/jobs/" + id + "/apply"},
		{http.MethodGet, "/api/applications/my-applications"},
		{http.MethodGet, "/api/applications/my-job-ids"},
		{http.MethodPut, "/api/applications/" + id},
		{http.MethodGet, "/api/dashboard/recruiter-stats"},
		{http.MethodGet, "/acme/preview"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := e.do(rt.method, rt.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", errorOf(t, w))
		})
	}
}

func TestRoutes_RoleMismatchIsUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	recruiter := e.recruiter("Rita")
	candidate := e.candidate("Carl")
	co := e.company(recruiter, "acme", true, nil)
	job := e.job(co, "Engineer", "engineer")

	cases := []struct {
		name   string
		method string
		path   string
		as     middleware.Identity
	}{
		{"candidate creates company", http.MethodPost, "/api/company", candidate},
		{"candidate edits sections", http.MethodPost, "/api/company/acme/sections", candidate},
		{"candidate reads dashboard", http.MethodGet, "/api/dashboard/recruiter-stats", candidate},
		{"recruiter applies", http.MethodPost, "/api/jobs/" + job.ID.String() + "/apply", recruiter},
		{"recruiter lists applications", http.MethodGet, "/api/applications/my-applications", recruiter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			as := tc.as
			w := e.do(tc.method, tc.path, map[string]string{}, &as)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestIdentityHeaders_IgnoredUnlessTrusted(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.Config, _ *Deps) { cfg.AuthTrustIdentityHeaders = false })
	rita := e.recruiter("Rita")
	e.company(rita, "acme", true, nil)

	forged := e.do(http.MethodPut, "/api/company/acme", map[string]any{"name": "Taken"}, &rita)
	assert.Equal(t, http.StatusUnauthorized, forged.Code)
	stored, err := e.store.GetCompanyBySlug(t.Context(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Name)

	token, err := e.srv.jwtService.GenerateToken(rita.UserID, rita.Role)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/company/acme", strings.NewReader(`{"name":"Acme Corp"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Acme Corp", decode[db.Company](t, w).Name)
}
