// Package crypto содержит криптографические примитивы,
// используемые сервером Sysane.
//
// В частности, пакет отвечает за:
//   - выпуск и проверку подписанных JWT (verify/reset/login токены);
//   - хэширование и проверку паролей (argon2id, bcrypt).
//
// Токены не хранятся на сервере: валидность определяется только подписью
// и сроком действия, поэтому токен можно предъявлять повторно до истечения exp.
package crypto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// JWTConfig описывает параметры подписи токенов.
type JWTConfig struct {
	// Algorithm — HS256|HS384|HS512.
	Algorithm string
	// SigningKey — секретный ключ для подписи токена.
	// Должен быть достаточно длинным и случайным.
	SigningKey string
}

// TokenService выпускает и проверяет токены с одним ключом и алгоритмом
// на весь процесс. Неизменяем после создания, безопасен для конкурентного использования.
type TokenService struct {
	method *jwt.SigningMethodHMAC
	key    []byte
	now    func() time.Time
}

// NewTokenService создаёт TokenService. Поддерживаются только HMAC алгоритмы.
func NewTokenService(cfg JWTConfig) (*TokenService, error) {
	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.Algorithm)
	}
	if cfg.SigningKey == "" {
		return nil, errors.New("empty jwt signing key")
	}
	return &TokenService{method: method, key: []byte(cfg.SigningKey), now: time.Now}, nil
}

// WithClock возвращает копию сервиса с другими часами. Нужно для тестов.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue создаёт и подписывает токен для subject со сроком жизни ttl.
//
// Токен содержит стандартные RegisteredClaims:
//   - sub (subjectID)
//   - iat (IssuedAt)
//   - exp (ExpiresAt = iat + ttl)
func (s *TokenService) Issue(subjectID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subjectID) == "" {
		return "", errors.New("empty token subject")
	}
	now := s.now()

	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.key)
}

// Verify проверяет подпись и срок действия токена и возвращает subject.
//
// Ошибки:
//   - ErrTokenExpired — текущее время больше exp
//   - ErrTokenMalformed — подпись невалидна, другой алгоритм, нет sub или exp
func (s *TokenService) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", serr.ErrTokenMalformed
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", serr.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", serr.ErrTokenMalformed, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", serr.ErrTokenMalformed)
	}
	return subject, nil
}
