package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"
)

func TestKeyByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if key := KeyByIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("key = %q", key)
	}
}

func TestNewRateLimiter_BurstCoercion_AndReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, KeyByIP())
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	lim := rl.getVisitor("k1")
	if lim == nil || rl.getVisitor("k1") != lim {
		t.Fatalf("expected the same limiter to be reused")
	}
	if rl.getVisitor("k2") == lim {
		t.Fatalf("distinct keys must get distinct buckets")
	}
}

func TestRateLimiter_SweepEvictsIdle(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, KeyByIP())
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-rl.ttl)}
	rl.visitors["fresh"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Minute)}
	rl.sweepN = sweepEvery - 1
	rl.mu.Unlock()

	_ = rl.getVisitor("new")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["old"]; ok {
		t.Fatalf("idle bucket should be evicted")
	}
	if _, ok := rl.visitors["fresh"]; !ok {
		t.Fatalf("recent bucket should survive")
	}
	if _, ok := rl.visitors["new"]; !ok || rl.sweepN != 0 {
		t.Fatalf("new bucket missing or sweep counter not reset (%d)", rl.sweepN)
	}
}

func TestRateLimiter_retryAfter(t *testing.T) {
	cases := []struct {
		rps  float64
		want int
	}{{10, 1}, {1, 1}, {0.5, 2}, {0.2, 5}, {0, 1}}
	for _, tc := range cases {
		if got := NewRateLimiter(tc.rps, 1, KeyByIP()).retryAfter(); got != tc.want {
			t.Fatalf("rps=%v retryAfter=%d want %d", tc.rps, got, tc.want)
		}
	}
}

func TestRateLimiter_Handler_AllowDenyAndExempt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1.0, 1, KeyByIP(), "/health")

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header(requestIDHeader, "rid-1"); c.Next() })
	r.Use(rl.Handler())
	r.GET("/api/cards/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	base := testutil.ToFloat64(rateLimited)

	if w := get(r, "/api/cards/"); w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	w := get(r, "/api/cards/")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "too_many_requests" || body["request_id"] != "rid-1" || body["detail"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
	if got := testutil.ToFloat64(rateLimited); got != base+1 {
		t.Fatalf("rate_limited_total = %v want %v", got, base+1)
	}

	for i := 0; i < 5; i++ {
		if w := get(r, "/health"); w.Code != http.StatusOK {
			t.Fatalf("exempt route limited on attempt %d", i)
		}
	}
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1.0, 1, KeyByIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = net.JoinHostPort(ip, "1")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("client %s should have its own bucket, got %d", ip, w.Code)
		}
	}
}
