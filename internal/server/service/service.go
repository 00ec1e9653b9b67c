// Package service содержит бизнес-логику приложения (регистрация и аутентификация).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gabrieldeam/sysane/internal/server/config"
	"github.com/gabrieldeam/sysane/internal/server/models"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . UsersRepo,Notifier,TokenIssuer,PasswordHasher,HealthRepo

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users UsersRepo
}

// Infra — внешние зависимости сервисов, кроме хранилища.
type Infra struct {
	Notifier Notifier
	Tokens   TokenIssuer
	Hasher   PasswordHasher
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth *AuthService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (адрес фронтенда и срок жизни токенов).
func NewServices(repos Repositories, infra Infra, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.Users, infra.Notifier, infra.Tokens, infra.Hasher, cfg),
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — хранилище учётных записей.
type UsersRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// Notifier отправляет письмо со ссылкой (подтверждение email, сброс пароля).
type Notifier interface {
	Send(ctx context.Context, toEmail, recipientName, actionURL string) error
}

// TokenIssuer выпускает и проверяет подписанные токены.
type TokenIssuer interface {
	Issue(subjectID string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}

// PasswordHasher — одностороннее хэширование паролей с солью.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}
