package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hallseat/config"
	otelMocks "hallseat/infras/otel/mocks"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newLimited(t *testing.T, enable bool) (http.Handler, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	cacheMock := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMock)

	handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return handler, cacheMock
}

func limitedRequest(handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	req.Header.Set("User-Agent", "test")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit_Disabled(t *testing.T) {
	handler, _ := newLimited(t, false)

	assert.Equal(t, http.StatusNoContent, limitedRequest(handler).Code)
}

func TestRateLimit_CountsPerClient(t *testing.T) {
	handler, cacheMock := newLimited(t, true)

	gomock.InOrder(
		cacheMock.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:test", time.Minute).Return(int64(1), nil),
		cacheMock.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:test", time.Minute).Return(int64(3), nil),
	)

	first := limitedRequest(handler)
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := limitedRequest(handler)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_CacheFailureLetsRequestThrough(t *testing.T) {
	handler, cacheMock := newLimited(t, true)
	cacheMock.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

	assert.Equal(t, http.StatusNoContent, limitedRequest(handler).Code)
}
