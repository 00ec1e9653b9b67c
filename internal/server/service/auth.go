package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gabrieldeam/sysane/internal/server/config"
	"github.com/gabrieldeam/sysane/internal/server/models"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
	"github.com/gabrieldeam/sysane/internal/shared/utils"
)

// Пути фронтенда, на которые ведут ссылки из писем.
const (
	verifyEmailPath   = "/auth/verify-email"
	resetPasswordPath = "/auth/reset-password"
)

// AuthService реализует регистрацию, подтверждение email, вход и сброс пароля.
//
// Состояния пользователя: Unverified -> Verified. Обратного перехода нет.
// Токены одноразовыми не являются: любой валидный неистёкший токен
// можно предъявить повторно.
type AuthService struct {
	users    UsersRepo
	notifier Notifier
	tokens   TokenIssuer
	hasher   PasswordHasher

	frontendURL string
	ttl         time.Duration

	validate *validator.Validate
}

// Session — выпущенный токен входа и срок жизни cookie в секундах.
type Session struct {
	Token  string
	MaxAge int
}

// ResendResult — итог повторной отправки письма.
type ResendResult struct {
	// AlreadyVerified — email уже подтверждён, письмо не отправлялось.
	AlreadyVerified bool
}

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Name                  string              `validate:"required"`
	Email                 string              `validate:"required,email"`
	Phone                 string              `validate:"required"`
	CompanyName           *string             `validate:"omitempty"`
	CompanySize           *models.CompanySize `validate:"omitempty,company_size"`
	WorkArea              models.WorkArea     `validate:"required,work_area"`
	Department            models.Department   `validate:"required,department"`
	Password              string              `validate:"required,password"`
	AcceptedPrivacyPolicy bool                `validate:"eq=true"`
}

type passwordInput struct {
	Password string `validate:"required,password"`
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, notifier Notifier, tokens TokenIssuer, hasher PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		notifier: notifier,
		tokens:   tokens,
		hasher:   hasher,

		frontendURL: strings.TrimRight(cfg.App.FrontendURL, "/"),
		ttl:         cfg.TokenTTL(),

		validate: newValidator(),
	}
}

// Register создаёт неподтверждённого пользователя и отправляет письмо со ссылкой подтверждения.
//
// Если письмо не ушло, пользователь остаётся созданным (ErrNotification),
// клиент должен вызвать ResendVerification.
//
// Ошибки:
//   - ErrValidation
//   - ErrDuplicateEmail
//   - ErrNotification
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Email = utils.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validateStruct(in); err != nil {
		return err
	}

	// быстрая проверка; окончательно дубль ловит UNIQUE в БД
	exists, err := s.EmailExists(ctx, in.Email)
	if err != nil {
		return err
	}
	if exists {
		return serr.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:                  in.Name,
		Email:                 in.Email,
		Phone:                 in.Phone,
		CompanyName:           in.CompanyName,
		CompanySize:           in.CompanySize,
		WorkArea:              in.WorkArea,
		Department:            in.Department,
		AcceptedPrivacyPolicy: in.AcceptedPrivacyPolicy,
		PasswordHash:          hash,
		IsVerified:            false,
	})
	if err != nil {
		return err
	}

	return s.sendLink(ctx, user, verifyEmailPath)
}

// VerifyEmail подтверждает email по токену из письма и сразу выдаёт сессию.
//
// Ошибки:
//   - ErrTokenExpired, ErrTokenMalformed
//   - ErrNotFound
//   - ErrAlreadyVerified
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (Session, error) {
	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if user.IsVerified {
		return Session{}, serr.ErrAlreadyVerified
	}

	user.IsVerified = true
	if err := s.users.Save(ctx, user); err != nil {
		return Session{}, err
	}

	return s.newSession(user)
}

// ForgotPassword отправляет письмо со ссылкой сброса пароля.
// Работает и для неподтверждённых аккаунтов.
//
// Ошибки:
//   - ErrValidation
//   - ErrNotFound
//   - ErrNotification
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.sendLink(ctx, user, resetPasswordPath)
}

// ResetPassword меняет пароль по токену из письма и выдаёт сессию.
// Ранее выпущенные токены остаются валидными до истечения срока.
//
// Ошибки:
//   - ErrTokenExpired, ErrTokenMalformed
//   - ErrValidation
//   - ErrNotFound
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (Session, error) {
	userID, err := s.subjectFromToken(token)
	if err != nil {
		return Session{}, err
	}

	if err := s.validateStruct(passwordInput{Password: newPassword}); err != nil {
		return Session{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return Session{}, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}
	user.PasswordHash = hash
	if err := s.users.Save(ctx, user); err != nil {
		return Session{}, err
	}

	return s.newSession(user)
}

// Login проверяет email и пароль и выдаёт сессию.
//
// Поведение:
//   - не раскрывает факт существования email (одна и та же ошибка)
//   - подтверждение email не требуется
//
// Ошибки:
//   - ErrValidation
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", serr.ErrValidation)
	}
	// получаем юзера по email
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return Session{}, serr.ErrInvalidCredentials
		}
		return Session{}, err
	}
	// проверяем пароль
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("%w: verify password: %v", serr.ErrInternal, err)
	}
	if !ok {
		return Session{}, serr.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// EmailExists сообщает, зарегистрирован ли email.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.findByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, serr.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// IsEmailVerified сообщает, подтверждён ли email. ErrNotFound если такого нет.
func (s *AuthService) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.IsVerified, nil
}

// ResendVerification повторно отправляет письмо подтверждения.
// Для уже подтверждённого email письмо не отправляется.
//
// Ошибки:
//   - ErrValidation
//   - ErrNotFound
//   - ErrNotification
func (s *AuthService) ResendVerification(ctx context.Context, email string) (ResendResult, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return ResendResult{}, err
	}
	if user.IsVerified {
		return ResendResult{AlreadyVerified: true}, nil
	}
	if err := s.sendLink(ctx, user, verifyEmailPath); err != nil {
		return ResendResult{}, err
	}
	return ResendResult{}, nil
}

// CurrentUser возвращает профиль пользователя по id из сессии.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// --- helpers ---

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", serr.ErrValidation)
	}
	return s.users.FindByEmail(ctx, email)
}

// subjectFromToken проверяет токен и разбирает sub как uuid.
func (s *AuthService) subjectFromToken(token string) (uuid.UUID, error) {
	sub, err := s.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", serr.ErrTokenMalformed)
	}
	return id, nil
}

func (s *AuthService) userFromToken(ctx context.Context, token string) (*models.User, error) {
	id, err := s.subjectFromToken(token)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) newSession(user *models.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID.String(), s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("%w: issue token: %v", serr.ErrInternal, err)
	}
	return Session{Token: token, MaxAge: int(s.ttl / time.Second)}, nil
}

// sendLink выпускает токен для пользователя и отправляет письмо со ссылкой {FRONTEND_URL}{path}?token=...
func (s *AuthService) sendLink(ctx context.Context, user *models.User, path string) error {
	token, err := s.tokens.Issue(user.ID.String(), s.ttl)
	if err != nil {
		return fmt.Errorf("%w: issue token: %v", serr.ErrInternal, err)
	}

	link := s.frontendURL + path + "?" + url.Values{"token": {token}}.Encode()
	if err := s.notifier.Send(ctx, user.Email, user.Name, link); err != nil {
		if errors.Is(err, serr.ErrNotification) {
			return err
		}
		return fmt.Errorf("%w: %v", serr.ErrNotification, err)
	}
	return nil
}

func (s *AuthService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", serr.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fieldErr := range verrs {
		msgs = append(msgs, fieldMessage(fieldErr))
	}
	return fmt.Errorf("%w: %s", serr.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "password":
		return field + " must be at least 8 characters and contain a letter and a digit"
	case "eq":
		return field + " must be accepted"
	case "company_size", "work_area", "department":
		return field + " has unsupported value"
	default:
		return field + " is invalid"
	}
}

// toSnake: AcceptedPrivacyPolicy -> accepted_privacy_policy, как поля в JSON.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newValidator() *validator.Validate {
	v := validator.New()
	// теги статичны, RegisterValidation здесь не падает
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("company_size", func(fl validator.FieldLevel) bool {
		return models.CompanySize(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("work_area", func(fl validator.FieldLevel) bool {
		return models.WorkArea(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return models.Department(fl.Field().String()).Valid()
	})
	return v
}

// Минимум 8 символов, хотя бы одна буква и одна цифра.
func strongPassword(p string) bool {
	if len([]rune(p)) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
