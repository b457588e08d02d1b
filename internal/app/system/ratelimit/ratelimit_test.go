package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.Equal(t, 0, l.Remaining("a"))

	assert.True(t, l.Allow(ctx, "b"), "keys are independent")

	l.Reset("a")
	assert.Equal(t, 2, l.Remaining("a"))
	assert.True(t, l.Allow(ctx, "a"))
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 20*time.Millisecond)
	defer l.Stop()
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "k"))
	require.False(t, l.Allow(ctx, "k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow(ctx, "k"))
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(1, time.Second)
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.2:1234", "198.51.100.7"},
		{"remote with port", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	h := Middleware(l, "join", func(r *http.Request) string { return r.Header.Get("X-Who") })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(who string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if who != "" {
			r.Header.Set("X-Who", who)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("v1").Code)
	rec := do("v1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.Equal(t, http.StatusNoContent, do("v2").Code)

	// Empty key bypasses the limiter.
	assert.Equal(t, http.StatusNoContent, do("").Code)
	assert.Equal(t, http.StatusNoContent, do("").Code)
}

func TestLoginLimiter(t *testing.T) {
	ll := &LoginLimiter{ip: New(100, time.Minute), login: New(2, time.Minute)}
	r := httptest.NewRequest(http.MethodPost, "/login", nil)

	ok, _ := ll.Check(r, "Ravi")
	assert.True(t, ok)
	ok, _ = ll.Check(r, " ravi ")
	assert.True(t, ok)
	ok, reason := ll.Check(r, "RAVI")
	assert.False(t, ok)
	assert.Contains(t, reason, "this account")

	ll.ResetLogin("ravi")
	ok, _ = ll.Check(r, "ravi")
	assert.True(t, ok)
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := NewLoginLimiterWith(New(1, time.Minute), 100, time.Minute)
	r := httptest.NewRequest(http.MethodPost, "/login", nil)

	ok, _ := ll.Check(r, "a")
	assert.True(t, ok)
	ok, reason := ll.Check(r, "b")
	assert.False(t, ok)
	assert.Contains(t, reason, "wait a minute")
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("SAHAYOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SAHAYOG_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	prefix := "sahayog_test:" + time.Now().Format("150405.000000") + ":"
	l := NewRedis(rdb, prefix, 2, time.Minute, nil)

	assert.True(t, l.Allow(ctx, "v1"))
	assert.True(t, l.Allow(ctx, "v1"))
	assert.False(t, l.Allow(ctx, "v1"))
	assert.True(t, l.Allow(ctx, "v2"))
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	l := NewRedis(rdb, "x:", 1, time.Minute, nil)
	assert.True(t, l.Allow(context.Background(), "k"))
	assert.True(t, l.Allow(context.Background(), "k"))
}
