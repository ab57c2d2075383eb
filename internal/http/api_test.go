package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-dashboard/internal/api"
	"campus-dashboard/internal/cart"
	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/guard"
	"campus-dashboard/internal/mirror"
	"campus-dashboard/internal/repository/memory"
	"campus-dashboard/internal/routes"
	"campus-dashboard/internal/session"
	"campus-dashboard/internal/storage"
)

type stubMirror struct {
	objects []storage.ObjectInfo
	purged  bool
}

func (s *stubMirror) Start(ctx context.Context) error { return nil }
func (s *stubMirror) Shutdown()                       {}
func (s *stubMirror) Enqueue(item mirror.Item) error  { return nil }
func (s *stubMirror) Purge(ctx context.Context) error {
	s.purged = true
	return nil
}
func (s *stubMirror) Objects(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.objects, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fakeBackend mimics the slice of the campus-store API the tests touch.
func fakeBackend(t *testing.T, role domain.Role) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	user := &domain.User{ID: 1, Username: "li", Role: role}

	mux.HandleFunc("POST /accounts/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.SessionPayload{
			User:      user,
			Token:     "tok-1",
			ExpiresAt: "2026-09-01T00:00:00Z",
		})
	})
	mux.HandleFunc("GET /accounts/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-SESSION-TOKEN") == "" {
			w.Header().Set("Location", "/accounts/login/")
			w.WriteHeader(http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ProfileResponse{User: user})
	})
	mux.HandleFunc("POST /accounts/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":"ok"}`))
	})
	mux.HandleFunc("GET /accounts/users/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.User{*user})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	router   *gin.Engine
	sessions *session.Store
	carts    *cart.Store
}

func newFixture(t *testing.T, role domain.Role) *fixture {
	return newFixtureWithMirror(t, role, nil)
}

func newFixtureWithMirror(t *testing.T, role domain.Role, mediaMirror mirror.Manager) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := fakeBackend(t, role)
	kv := memory.NewKeyValueRepository()

	var sessions *session.Store
	client := api.NewClient(api.Options{
		BaseURL: backend.URL,
		Token: func() string {
			if sessions == nil {
				return ""
			}
			return sessions.Token()
		},
	})
	sessions = session.New(client, kv, quietLogger())
	carts := cart.New(kv, quietLogger())

	table := routes.Default()
	g := guard.New(sessions, table, guard.Policy{AllowReregister: true, AdminLanding: "user-management"})

	router := gin.New()
	NewHandler(sessions, carts, client, g, table, mediaMirror, quietLogger()).RegisterRoutes(router)
	return &fixture{router: router, sessions: sessions, carts: carts}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/session/login", api.LoginRequest{Username: "li", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUnauthenticatedPageRedirectsToLogin(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)

	rec := f.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fcart", rec.Header().Get("Location"))
}

func TestLoginPageServedToAnonymous(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)

	rec := f.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedUserBouncedOffLogin(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/login?redirect=%2Fcart", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
}

func TestRoleMismatchRedirectsHome(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodGet, "/manage/users", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAdminDashboardRedirectsToLanding(t *testing.T) {
	f := newFixture(t, domain.RoleAdmin)
	f.login(t)

	rec := f.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/manage/users", rec.Header().Get("Location"))
}

func TestShowRouteIncludesMenuAndUser(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Route struct {
			Name string `json:"name"`
		} `json:"route"`
		Menu []struct {
			Name string `json:"name"`
		} `json:"menu"`
		User *domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cart", resp.Route.Name)
	assert.NotEmpty(t, resp.Menu)
	require.NotNil(t, resp.User)
	assert.Equal(t, "li", resp.User.Username)
}

func TestAPIRequiresSession(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)

	rec := f.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := newFixture(t, domain.RoleAdmin)
	admin.login(t)

	rec = admin.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartEndpoints(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	item := domain.CartItem{ProductID: 1, Title: "奶茶", Price: 12.5}
	rec := f.do(http.MethodPost, "/api/cart/items", item)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/cart/items", item)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []domain.CartItem `json:"items"`
		Total float64           `json:"total"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Count)
	assert.InDelta(t, 25.0, resp.Total, 1e-9)

	rec = f.do(http.MethodPut, "/api/cart/items/1", map[string]int{"qty": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)

	rec = f.do(http.MethodDelete, "/api/cart/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestCartAddRejectsInvalidProduct(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodPost, "/api/cart/items", domain.CartItem{ProductID: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFromEmptyCartFails(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodPost, "/api/orders/from-cart", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)
	f.login(t)

	rec := f.do(http.MethodPost, "/api/session/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fcart", rec.Header().Get("Location"))
}

func TestMirroredMediaEndpoints(t *testing.T) {
	m := &stubMirror{objects: []storage.ObjectInfo{{Key: "posts/2026/08/30/a.png", Size: 3}}}
	f := newFixtureWithMirror(t, domain.RoleAdmin, m)
	f.login(t)

	rec := f.do(http.MethodGet, "/api/media", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Objects []storage.ObjectInfo `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Objects, 1)
	assert.Equal(t, "posts/2026/08/30/a.png", resp.Objects[0].Key)

	rec = f.do(http.MethodDelete, "/api/media", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, m.purged)
}

func TestMirroredMediaUnavailableWithoutMirror(t *testing.T) {
	f := newFixture(t, domain.RoleAdmin)
	f.login(t)

	rec := f.do(http.MethodGet, "/api/media", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessionEndpointReportsState(t *testing.T) {
	f := newFixture(t, domain.RoleConsumer)

	rec := f.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Authenticated bool `json:"authenticated"`
		Initialized   bool `json:"initialized"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Authenticated)
	assert.True(t, resp.Initialized)

	f.login(t)
	rec = f.do(http.MethodGet, "/api/session", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
}
