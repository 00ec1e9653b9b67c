// Заголовки безопасности и rate limit
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// SecurityHeaders выставляет защитные заголовки ответа.
// В production дополнительно включает HSTS и редирект на https.
func SecurityHeaders(production bool) func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		// inline разрешён только ради swagger UI
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            stsSeconds(production),
		STSIncludeSubdomains:  production,
		IsDevelopment:         !production,
	})
	return secureMiddleware.Handler
}

// HSTS на год, только в production
func stsSeconds(production bool) int64 {
	if production {
		return 31536000
	}
	return 0
}

// RateLimitByIP ограничивает число запросов с одного IP в минуту.
// При превышении отдаём 429 с JSON-ошибкой.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusTooManyRequests, "RateLimited", "too many requests, try again later")
		}),
	)
}
