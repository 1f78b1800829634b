package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hallseat/config"
	"hallseat/infras/jwt"
	jwtMocks "hallseat/infras/jwt/mocks"
	otelMocks "hallseat/infras/otel/mocks"
	"hallseat/permissions"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	transport "hallseat/transport/http"
	"hallseat/transport/http/middleware"
	"hallseat/transport/http/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serverFixture struct {
	server *transport.HTTP
	jwt    *jwtMocks.MockJWT
	cache  *cacheMocks.MockRedisCache
}

func newServerFixture(t *testing.T) serverFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := &config.Config{}
	jwtMock := jwtMocks.NewMockJWT(ctrl)
	cacheMock := cacheMocks.NewMockRedisCache(ctrl)

	perms := permissions.Get()
	require.NotNil(t, perms)

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMock)
	authRole := middleware.NewAuthRoleMiddleware(jwtMock, otelMocks.NewOtel(), cacheMock, perms, cfg)

	return serverFixture{
		server: transport.New(cfg, router.New(router.DomainHandlers{}, authRole), app),
		jwt:    jwtMock,
		cache:  cacheMock,
	}
}

func (f serverFixture) do(method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	return rec
}

func TestHealthCheck(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"OK"}`, rec.Body.String())
	assert.Equal(t, transport.ServerStateReady, f.server.State())
}

func TestPublicRouteSkipsAuth(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/v1/meta/statuses", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"room_statuses"`)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/v1/meta/navigation", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNavigationFollowsTokenRole(t *testing.T) {
	f := newServerFixture(t)

	f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(&jwt.Claims{
		UserID:  "user-1",
		Email:   "viewer@hall.edu",
		Role:    constant.RoleReportViewer,
		TokenID: "token-1",
	}, nil)
	f.cache.EXPECT().Exists(gomock.Any(), "auth:revoked:token-1").Return(false, nil)

	rec := f.do(http.MethodGet, "/v1/meta/navigation", map[string]string{
		constant.RequestHeaderAuthorization: "Bearer token",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"id":"dashboard","label":"Dashboard"},{"id":"reports","label":"Reports"}]}`, rec.Body.String())
}
