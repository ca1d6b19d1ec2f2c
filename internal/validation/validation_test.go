package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"user@example.com", true},
		{"  user@example.com  ", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"user", false},
		{"user@example", false},
		{"user @example.com", false},
		{"user@@example.com", false},
		{"a\u00a0b@c.d", false},
		{"user@exa\u2003mple.com", false},
		{"ñandú@ejemplo.es", true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.ok {
			require.NoError(t, err, tt.email)
			continue
		}
		require.Error(t, err, tt.email)

		var vErr *Error
		require.True(t, errors.As(err, &vErr))
		require.Equal(t, "email", vErr.Field)
	}
}

func TestValidatePassword(t *testing.T) {
	require.Error(t, ValidatePassword("", 8))
	require.Error(t, ValidatePassword("1234567", 8))
	require.NoError(t, ValidatePassword("12345678", 8))
	require.NoError(t, ValidatePassword("abc", 3))

	// Length is counted in characters, not bytes
	require.Error(t, ValidatePassword("ñandú12", 8))
	require.NoError(t, ValidatePassword("ñandú123", 8))
}

func TestValidatePasswordConfirmation(t *testing.T) {
	require.NoError(t, ValidatePasswordConfirmation("same-pass", "same-pass"))

	err := ValidatePasswordConfirmation("same-pass", "other-pass")
	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "confirm", vErr.Field)
}
