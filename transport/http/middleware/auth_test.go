package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hallseat/config"
	"hallseat/infras/jwt"
	jwtMocks "hallseat/infras/jwt/mocks"
	otelMocks "hallseat/infras/otel/mocks"
	"hallseat/permissions"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	"hallseat/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	router *chi.Mux
	jwt    *jwtMocks.MockJWT
	cache  *cacheMocks.MockRedisCache
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	jwtMock := jwtMocks.NewMockJWT(ctrl)
	cacheMock := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	perms := permissions.Get()
	require.NotNil(t, perms)

	mw := middleware.NewAuthRoleMiddleware(jwtMock, otelMocks.NewOtel(), cacheMock, perms, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKey, mw.Auth, mw.RBAC)
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", ok)
			r.Delete("/{id}", ok)
		})
		r.Post("/auth/login", ok)
	})

	return authFixture{router: router, jwt: jwtMock, cache: cacheMock}
}

func claimsFor(role string) *jwt.Claims {
	return &jwt.Claims{
		UserID:  "user-1",
		Email:   "user@hall.edu",
		Role:    role,
		TokenID: "token-1",
		Type:    jwt.AccessToken,
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func serve(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_PublicRouteSkipsToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := serve(f.router, http.MethodPost, "/v1/auth/login", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	f := newAuthFixture(t)

	rec := serve(f.router, http.MethodGet, "/v1/rooms", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := serve(f.router, http.MethodGet, "/v1/rooms", map[string]string{"Authorization": "Bearer expired"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestAuth_RevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok", jwt.AccessToken).Return(claimsFor(constant.RoleHallAdmin), nil)
	f.cache.EXPECT().Exists(gomock.Any(), "auth:revoked:token-1").Return(true, nil)

	rec := serve(f.router, http.MethodGet, "/v1/rooms", map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RevocationStoreDownRejects(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok", jwt.AccessToken).Return(claimsFor(constant.RoleHallAdmin), nil)
	f.cache.EXPECT().Exists(gomock.Any(), "auth:revoked:token-1").Return(false, errors.New("redis: connection refused"))

	rec := serve(f.router, http.MethodGet, "/v1/rooms", map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to verify session")
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"maintenance staff reads rooms", constant.RoleMaintenanceStaff, http.MethodGet, "/v1/rooms", http.StatusOK},
		{"student cannot read rooms", constant.RoleStudent, http.MethodGet, "/v1/rooms", http.StatusForbidden},
		{"hall admin deletes room", constant.RoleHallAdmin, http.MethodDelete, "/v1/rooms/r1", http.StatusOK},
		{"finance cannot delete room", constant.RoleFinanceOfficer, http.MethodDelete, "/v1/rooms/r1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.jwt.EXPECT().ValidateToken("tok", jwt.AccessToken).Return(claimsFor(tt.role), nil)
			f.cache.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)

			rec := serve(f.router, tt.method, tt.path, map[string]string{"Authorization": "Bearer tok"})

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKey(t *testing.T) {
	f := newAuthFixture(t)

	rec := serve(f.router, http.MethodDelete, "/v1/rooms/r1", map[string]string{"X-API-Key": "internal-key"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.RoleSuperAdmin, rec.Header().Get("X-Role"))

	rec = serve(f.router, http.MethodDelete, "/v1/rooms/r1", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
