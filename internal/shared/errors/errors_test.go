package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

func TestKind_MapsEveryDomainError(t *testing.T) {
	cases := map[error]string{
		serr.ErrDuplicateEmail:     "DuplicateEmail",
		serr.ErrNotFound:           "NotFound",
		serr.ErrInvalidCredentials: "InvalidCredentials",
		serr.ErrAlreadyVerified:    "AlreadyVerified",
		serr.ErrTokenExpired:       "Expired",
		serr.ErrTokenMalformed:     "Malformed",
		serr.ErrValidation:         "ValidationError",
		serr.ErrBadJSON:            "ValidationError",
		serr.ErrNotification:       "NotificationError",
		serr.ErrUnauthorized:       "Unauthorized",
		serr.ErrInternal:           "InternalError",
		errors.New("boom"):         "InternalError",
	}

	for err, want := range cases {
		require.Equal(t, want, serr.Kind(err), "error %v", err)
	}
}

// обёрнутые ошибки тоже распознаются
func TestKind_UnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("send mail: %w", serr.ErrNotification)
	require.Equal(t, "NotificationError", serr.Kind(err))
	require.Empty(t, serr.Kind(nil))
}
