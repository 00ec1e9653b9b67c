package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabrieldeam/sysane/internal/server/crypto"
)

var fastArgon = crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashPassword_AndVerify(t *testing.T) {
	enc, err := crypto.HashPassword("Secret123", fastArgon)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enc, "argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := crypto.VerifyPassword("Secret123", enc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = crypto.VerifyPassword("Secret124", enc)
	require.NoError(t, err)
	require.False(t, ok)
}

// Одинаковые пароли дают разные хэши за счёт соли
func TestHashPassword_SaltDiffers(t *testing.T) {
	a, err := crypto.HashPassword("Secret123", fastArgon)
	require.NoError(t, err)
	b, err := crypto.HashPassword("Secret123", fastArgon)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := crypto.HashPassword("   ", fastArgon)
	require.Error(t, err)

	_, err = crypto.HashPasswordBcrypt("", bcrypt.MinCost)
	require.Error(t, err)
}

func TestVerifyPassword_InvalidFormat(t *testing.T) {
	cases := []string{
		"",
		"plain",
		"argon2id$v=19$m=1,t=1,p=1$salt",
		"argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"argon2id$v=19$bad$c2FsdA$aGFzaA",
		"argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
		"argon2id$v=19$m=1,t=1,p=1$c2FsdA$!!!",
	}
	for _, enc := range cases {
		ok, err := crypto.VerifyPassword("x", enc)
		require.Error(t, err, enc)
		require.False(t, ok)
	}
}

func TestBcrypt_AndVerify(t *testing.T) {
	enc, err := crypto.HashPasswordBcrypt("Secret123", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := crypto.VerifyPasswordBcrypt("Secret123", enc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = crypto.VerifyPasswordBcrypt("nope", enc)
	require.NoError(t, err)
	require.False(t, ok)
}

// Хэшер проверяет пароль любым алгоритмом вне зависимости от того, каким хэширует сам
func TestPasswordHasher_VerifiesBothFormats(t *testing.T) {
	argonHasher, err := crypto.NewPasswordHasher("argon2id", fastArgon, bcrypt.MinCost)
	require.NoError(t, err)
	bcryptHasher, err := crypto.NewPasswordHasher("BCRYPT", fastArgon, bcrypt.MinCost)
	require.NoError(t, err)

	fromArgon, err := argonHasher.Hash("Secret123")
	require.NoError(t, err)
	fromBcrypt, err := bcryptHasher.Hash("Secret123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(fromBcrypt, "$2"))

	for _, h := range []*crypto.PasswordHasher{argonHasher, bcryptHasher} {
		for _, enc := range []string{fromArgon, fromBcrypt} {
			ok, err := h.Verify("Secret123", enc)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = h.Verify("wrong-pass1", enc)
			require.NoError(t, err)
			require.False(t, ok)
		}
	}
}

func TestNewPasswordHasher_Unknown(t *testing.T) {
	_, err := crypto.NewPasswordHasher("md5", fastArgon, bcrypt.MinCost)
	require.Error(t, err)
}
