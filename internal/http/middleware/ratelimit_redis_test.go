package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Integration tests against a live Redis; run only when REDIS_ADDR is set.

func redisTestSetup(t *testing.T) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	gin.SetMode(gin.TestMode)
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0)
}

func TestRedisRateLimitBlocksOverLimit(t *testing.T) {
	redisTestSetup(t)

	r := gin.New()
	r.GET("/ping", RedisRateLimit(2, 2*time.Second), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.9.8.7:4444"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := do(); code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, code)
		}
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: got %d, want 429", code)
	}
}

func TestMoveRateLimitKeyedByNick(t *testing.T) {
	redisTestSetup(t)

	// unique window length per run so leftover keys from a previous run
	// cannot bleed into this one
	window := time.Duration(2000+time.Now().UnixNano()%1000) * time.Millisecond

	r := gin.New()
	r.POST("/roll",
		func(c *gin.Context) {
			if nick := c.GetHeader("X-Test-Nick"); nick != "" {
				c.Set("nick", nick)
			}
		},
		MoveRateLimit(2, window),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

	do := func(nick string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/roll", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if nick != "" {
			req.Header.Set("X-Test-Nick", nick)
		}
		r.ServeHTTP(w, req)
		return w
	}

	// each nick gets its own budget even from the same address
	for i := 0; i < 2; i++ {
		if w := do("alice"); w.Code != http.StatusOK {
			t.Fatalf("alice request %d: got %d, want 200", i+1, w.Code)
		}
	}
	w := do("alice")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("alice over limit: got %d, want 429", w.Code)
	}
	if got := w.Header().Get("X-MoveRateLimit-Limit"); got != "2" {
		t.Fatalf("limit header = %q, want 2", got)
	}
	if got := w.Header().Get("X-MoveRateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining header = %q, want 0", got)
	}

	if w := do("bob"); w.Code != http.StatusOK {
		t.Fatalf("bob must not share alice's budget: got %d", w.Code)
	}

	// unauthenticated requests fall back to the client address key
	if w := do(""); w.Code != http.StatusOK {
		t.Fatalf("address-keyed request: got %d", w.Code)
	}
}
