package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/picker-payroll/internal/config"
)

func TestPayloadRoundTripKeepsHeaders(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"items":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCacheKeyDependsOnGenerationAndPath(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "c", KeyStrategy: "route_query"}

	key := func(path string, gen int64) string {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/pickers/:id")
		return cacheKeyFrom(cfg, c, gen)
	}

	a := key("/api/pickers/1", 0)
	assert.Equal(t, a, key("/api/pickers/1", 0))
	assert.NotEqual(t, a, key("/api/pickers/2", 0))
	assert.NotEqual(t, a, key("/api/pickers/1", 1))
	assert.Contains(t, a, "c:g0:")
}

type incrRecorder struct {
	keys []string
	err  error
}

func (r *incrRecorder) Incr(_ context.Context, key string) *redis.IntCmd {
	r.keys = append(r.keys, key)
	return redis.NewIntResult(int64(len(r.keys)), r.err)
}

func TestBumpGeneration(t *testing.T) {
	ctx := context.Background()
	rec := &incrRecorder{}

	require.NoError(t, BumpGeneration(ctx, config.CacheConfig{Enabled: true, Prefix: "payroll-cache"}, rec))
	assert.Equal(t, []string{"payroll-cache:generation"}, rec.keys)

	require.NoError(t, BumpGeneration(ctx, config.CacheConfig{Enabled: false, Prefix: "payroll-cache"}, rec))
	assert.Len(t, rec.keys, 1)
	require.NoError(t, BumpGeneration(ctx, config.CacheConfig{Enabled: true}, nil))

	rec.err = errors.New("READONLY")
	assert.Error(t, BumpGeneration(ctx, config.CacheConfig{Enabled: true, Prefix: "p"}, rec))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/picks", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/picks")

	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:route:POST /api/picks", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /api/picks", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	called := 0
	h := func(c echo.Context) error { called++; return c.String(http.StatusOK, "ok") }

	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		InvalidateOnWrite(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, mw(h)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, called)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("defg"))
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(7), cw.size)
	assert.Equal(t, "abcdefg", rec.Body.String())
}
