package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gabrieldeam/sysane/internal/server/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders_Dev(t *testing.T) {
	h := middleware.SecurityHeaders(false)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
	require.Empty(t, rr.Header().Get("Strict-Transport-Security"))
}

// в production http-запрос перенаправляется на https
func TestSecurityHeaders_ProductionRedirects(t *testing.T) {
	h := middleware.SecurityHeaders(true)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil))

	require.Equal(t, http.StatusMovedPermanently, rr.Code)
	require.Contains(t, rr.Header().Get("Location"), "https://example.com/healthz")
}

func TestSecurityHeaders_ProductionBehindProxy(t *testing.T) {
	h := middleware.SecurityHeaders(true)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

func TestRateLimitByIP(t *testing.T) {
	h := middleware.RateLimitByIP(2)(okHandler)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1"))
	require.Equal(t, http.StatusOK, do("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	// другой IP не затронут
	require.Equal(t, http.StatusOK, do("10.0.0.2"))
}
