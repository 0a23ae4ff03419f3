package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAllowRequest_MinuteWindow(t *testing.T) {
	rl := NewRateLimiter(2, 0, 0, true)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if !rl.AllowRequest("a") || !rl.AllowRequest("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.AllowRequest("a") {
		t.Fatal("third request in the same minute should be rejected")
	}
	if !rl.AllowRequest("b") {
		t.Fatal("other clients have their own window")
	}

	clock = clock.Add(61 * time.Second)
	if !rl.AllowRequest("a") {
		t.Fatal("window should slide after a minute")
	}
}

func TestAllowRequest_HourWindow(t *testing.T) {
	rl := NewRateLimiter(0, 3, 0, true)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !rl.AllowRequest("a") {
			t.Fatalf("request %d rejected", i)
		}
		clock = clock.Add(5 * time.Minute)
	}
	if rl.AllowRequest("a") {
		t.Fatal("hour limit not enforced")
	}

	st := rl.GetStats("a")
	if st.RequestsLastHour != 3 || st.RemainingThisHour != 0 || st.RemainingThisMinute != -1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestAllowRequest_Disabled(t *testing.T) {
	rl := NewRateLimiter(1, 1, 1, false)
	for i := 0; i < 10; i++ {
		if !rl.AllowRequest("a") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
	if rl.GetStats("a").Enabled {
		t.Fatal("stats should report disabled")
	}
}

func TestPrune(t *testing.T) {
	rl := NewRateLimiter(10, 0, 0, true)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.AllowRequest("old")
	clock = clock.Add(25 * time.Hour)
	rl.AllowRequest("new")
	rl.prune(clock)

	if _, ok := rl.clients["old"]; ok {
		t.Fatal("idle client not pruned")
	}
	if _, ok := rl.clients["new"]; !ok {
		t.Fatal("active client pruned")
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 0, 0, true)
	r := gin.New()
	r.POST("/x", Middleware(rl), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("first status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0, true)
	if !rl.AllowRequest("a") || rl.AllowRequest("a") {
		t.Fatal("minute limit of 1 not enforced")
	}

	rl.Reset()
	if got := rl.GetStats("a").TrackedClients; got != 0 {
		t.Fatalf("tracked=%d want=0", got)
	}
	if !rl.AllowRequest("a") {
		t.Fatal("request rejected after reset")
	}
}
