// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrValidation = errors.New("validation error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неверные учётные данные (не раскрываем существует ли email)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Email уже зарегистрирован
	ErrDuplicateEmail = errors.New("email already registered")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Email уже подтверждён
	ErrAlreadyVerified = errors.New("email already verified")
	// Срок действия токена истёк
	ErrTokenExpired = errors.New("token expired")
	// Токен повреждён, подпись невалидна или нет обязательных claims
	ErrTokenMalformed = errors.New("token malformed")
	// Не удалось отправить письмо
	ErrNotification = errors.New("notification error")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
)

// Kind возвращает машинно-читаемое имя вида ошибки для JSON-ответов.
// Обёрнутые ошибки разворачиваются через errors.Is.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateEmail):
		return "DuplicateEmail"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrAlreadyVerified):
		return "AlreadyVerified"
	case errors.Is(err, ErrTokenExpired):
		return "Expired"
	case errors.Is(err, ErrTokenMalformed):
		return "Malformed"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadJSON):
		return "ValidationError"
	case errors.Is(err, ErrNotification):
		return "NotificationError"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	default:
		return "InternalError"
	}
}
