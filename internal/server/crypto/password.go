// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

var errEmptyPassword = errors.New("empty password")

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// PasswordHasher хэширует новые пароли выбранным алгоритмом,
// а проверяет любым из поддерживаемых: алгоритм определяется по самому хэшу.
// Так смена password.hasher не ломает вход старым пользователям.
type PasswordHasher struct {
	algorithm  string
	argon      Argon2Params
	bcryptCost int
}

// NewPasswordHasher создаёт PasswordHasher. algorithm — argon2id|bcrypt.
func NewPasswordHasher(algorithm string, argon Argon2Params, bcryptCost int) (*PasswordHasher, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	switch algorithm {
	case HasherArgon2id, HasherBcrypt:
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}
	return &PasswordHasher{algorithm: algorithm, argon: argon, bcryptCost: bcryptCost}, nil
}

// Hash возвращает закодированный хэш пароля.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == HasherBcrypt {
		return HashPasswordBcrypt(password, h.bcryptCost)
	}
	return HashPassword(password, h.argon)
}

// Verify сравнивает пароль с хэшем за постоянное время.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	if isBcryptHash(encoded) {
		return VerifyPasswordBcrypt(password, encoded)
	}
	return VerifyPassword(password, encoded)
}

// HashPassword возвращает строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p Argon2Params) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errEmptyPassword
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64Salt, b64Hash,
	)
	return encoded, nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != HasherArgon2id {
		return false, errors.New("invalid hash format")
	}

	// parts[0] = argon2id
	// parts[1] = v=19
	// parts[2] = m=...,t=...,p=...
	// parts[3] = salt
	// parts[4] = hash

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errors.New("unsupported argon2 version")
	}

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errors.New("invalid salt")
	}

	wantHash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid hash")
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(wantHash)))
	return subtle.ConstantTimeCompare(got, wantHash) == 1, nil
}

// HashPasswordBcrypt хэширует пароль через bcrypt с заданной стоимостью.
func HashPasswordBcrypt(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// VerifyPasswordBcrypt проверяет пароль против bcrypt-хэша.
// Несовпадение пароля — это (false, nil), а не ошибка.
func VerifyPasswordBcrypt(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt: %w", err)
	}
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
