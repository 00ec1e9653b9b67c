// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// CookieName — имя cookie сессии. Значение: "Bearer <token>".
const CookieName = "access_token"

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// TokenVerifier проверяет токен и возвращает subject (id пользователя).
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// SessionVerifier проверяет токен сессии из cookie access_token
// или заголовка Authorization: Bearer.
type SessionVerifier struct {
	tokens TokenVerifier
}

// NewSessionVerifier создаёт SessionVerifier поверх сервиса токенов.
func NewSessionVerifier(tokens TokenVerifier) *SessionVerifier {
	return &SessionVerifier{tokens: tokens}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID кладёт userID в контекст.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// AuthMiddleware возвращает HTTP middleware для проверки токена сессии.
//
// Middleware:
//   - берёт токен из cookie access_token, иначе из Authorization: Bearer <token>
//   - проверяет подпись и срок действия
//   - сохраняет userID в context.Context
//
// В случае ошибки возвращает HTTP 401 Unauthorized.
func (v *SessionVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				writeUnauthorized(w, "missing session token")
				return
			}

			sub, err := v.tokens.Verify(tokenStr)
			if err != nil {
				writeUnauthorized(w, serr.Kind(err)+": invalid session token")
				return
			}

			userID, err := uuid.Parse(sub)
			if err != nil {
				writeUnauthorized(w, "invalid token subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// TokenFromRequest достаёт токен сессии: сначала cookie, потом заголовок Authorization.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		v := strings.TrimSpace(c.Value)
		if tok := ExtractBearer(v); tok != "" {
			return tok
		}
		if v != "" && !strings.Contains(v, " ") {
			return v
		}
	}
	return ExtractBearer(r.Header.Get("Authorization"))
}

// ExtractBearer извлекает токен из значения вида "Bearer <token>".
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusUnauthorized, serr.Kind(serr.ErrUnauthorized), msg)
}

func writeJSONError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": msg})
}
