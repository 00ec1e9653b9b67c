// Package http реализует маршрутизацию HTTP-слоя сервера Sysane.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - общий стек middleware: request id, логирование, recover, таймаут, заголовки безопасности;
//   - rate limit и проверку cookie сессии на маршрутах /auth.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gabrieldeam/sysane/internal/server/api"
	"github.com/gabrieldeam/sysane/internal/server/middleware"
)

// Options — настройки роутера из конфига.
type Options struct {
	// Production включает HSTS и редирект на https.
	Production bool
	// RequestTimeout — таймаут обработки запроса. 0 — без таймаута.
	RequestTimeout time.Duration
	// RateLimitPerMinute — лимит запросов с одного IP на /auth. 0 — выключен.
	RateLimitPerMinute int
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - эндпоинты аутентификации под префиксом /auth;
//   - /auth/me, защищённый cookie сессии;
//   - /healthz и swagger UI.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders(opts.Production))

	r.Get("/healthz", h.Health)
	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(middleware.RateLimitByIP(opts.RateLimitPerMinute))
		}

		r.Post("/register", h.Register)
		r.Get("/verify-email", h.VerifyEmail)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/email-exists", h.EmailExists)
		r.Get("/is-email-verified", h.IsEmailVerified)
		r.Post("/resend-verification-email", h.ResendVerification)

		// защищённые пути
		r.Group(func(r chi.Router) {
			r.Use(h.Verifier.AuthMiddleware())
			r.Get("/me", h.Me)
		})
	})

	return r
}
