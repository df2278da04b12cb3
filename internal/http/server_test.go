package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"toptransfer/internal/http/middleware"
	"toptransfer/internal/modules/booking"
)

func newTestServer() http.Handler {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(booking.NewMemoryStore(0), booking.Deps{}, false)
	return NewServer(ServerDeps{Booking: svc, RatePerMin: 1000}).Routes()
}

func TestRoutes_Health(t *testing.T) {
	h := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected a request id header")
	}
	if got := w.Header().Get("Content-Language"); got != "fr" {
		t.Errorf("Content-Language = %q, want fr", got)
	}
}

func TestRoutes_Preflight(t *testing.T) {
	h := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/create-payment-intent", nil)
	req.Header.Set("Origin", "https://toptransfer.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRoutes_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{RatePerMin: 2}).Routes()

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("allowed = %d, want 2 for one socket address", allowed)
	}
}

func TestRoutes_TrustedProxyForwardsClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(ServerDeps{RatePerMin: 2, TrustedProxies: []string{"198.51.100.7"}}).Routes()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d from a distinct client behind the proxy: got %d", i, w.Code)
		}
	}
}

func TestRoutes_BookingLifecycle(t *testing.T) {
	h := newTestServer()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", w.Code)
	}
}
