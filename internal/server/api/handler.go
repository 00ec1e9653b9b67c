// Package api реализует HTTP-слой сервера Sysane.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - выдачу и сброс cookie сессии access_token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabrieldeam/sysane/internal/server/middleware"
	"github.com/gabrieldeam/sysane/internal/server/service"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
	"github.com/gabrieldeam/sysane/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	// Error — вид ошибки: DuplicateEmail, NotFound, InvalidCredentials, AlreadyVerified,
	// Expired, Malformed, ValidationError, NotificationError, Unauthorized, InternalError.
	Error   string `json:"error" example:"NotFound"`
	Message string `json:"message" example:"Usuário não encontrado."`
}

// MessageResponse — подтверждение без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

// Options — настройки HTTP-слоя из конфига.
type Options struct {
	// SecureCookie — флаг Secure у cookie сессии.
	SecureCookie bool
	// MaxBodyBytes — лимит тела запроса. 0 — без лимита.
	MaxBodyBytes int64
	// Health — проверка БД для /healthz. nil — всегда ok.
	Health service.HealthRepo
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: проверка cookie сессии и middleware авторизации.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.SessionVerifier

	opts Options
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.SessionVerifier, opts Options) *Handler {
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		opts:     opts,
	}
}

// WriteJSON пишет v как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

// statusFor — единственное место, где вид ошибки превращается в HTTP-статус.
func statusFor(kind string) int {
	switch kind {
	case "DuplicateEmail", "AlreadyVerified", "Expired", "Malformed", "ValidationError":
		return http.StatusBadRequest
	case "NotFound":
		return http.StatusNotFound
	case "InvalidCredentials", "Unauthorized":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// сообщения для пользователя по виду ошибки
var defaultMessages = map[string]string{
	"DuplicateEmail":     "Email já cadastrado.",
	"NotFound":           "Usuário não encontrado.",
	"InvalidCredentials": "Credenciais inválidas",
	"AlreadyVerified":    "Email já verificado.",
	"Expired":            "Token expirado.",
	"Malformed":          "Token inválido ou malformado.",
	"NotificationError":  "Falha ao enviar email.",
	"Unauthorized":       "Não autorizado.",
	"InternalError":      "Erro interno do servidor.",
}

// writeServiceError маппит ошибку сервиса в ответ. 5xx пишутся в лог.
// override подменяет сообщение для конкретного вида ошибки.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error, override map[string]string) {
	kind := serr.Kind(err)
	status := statusFor(kind)

	msg, ok := override[kind]
	if !ok {
		msg = defaultMessages[kind]
	}
	if kind == "ValidationError" {
		msg = validationMessage(err)
	}

	if status >= http.StatusInternalServerError {
		h.Log.Sugar().Errorw(op+" failed", "error", err)
	}
	WriteError(w, status, kind, msg)
}

// validationMessage отрезает префикс sentinel-ошибки: "validation error: email is required" -> "email is required".
func validationMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{serr.ErrValidation, serr.ErrBadJSON} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// decodeJSON читает тело запроса в dst с учётом лимита размера.
// Если allowEmpty и тело пустое, это не ошибка.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	body := r.Body
	if h.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}
	err := json.NewDecoder(body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return fmt.Errorf("%w: %v", serr.ErrBadJSON, err)
	}
}

// setSessionCookie выставляет cookie access_token = "Bearer <token>".
func (h *Handler) setSessionCookie(w http.ResponseWriter, sess service.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "Bearer " + sess.Token,
		Path:     "/",
		MaxAge:   sess.MaxAge,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
