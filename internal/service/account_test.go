package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elarca/resetweb/internal/repository"
)

func newTestAccountService(delay time.Duration) *AccountService {
	emailService := NewEmailService("", "noreply@example.com", "http://localhost:8090", "El Arca", true)
	return NewAccountService(repository.NewAccountRepository(MockAccountEmail), emailService, delay)
}

func TestVerifyToken(t *testing.T) {
	s := newTestAccountService(0)

	v := s.VerifyToken("valid-123")
	require.True(t, v.Valid)
	require.Equal(t, MockAccountEmail, v.Email)

	v = s.VerifyToken("validity")
	require.True(t, v.Valid)

	v = s.VerifyToken("expired-123")
	require.False(t, v.Valid)
	require.Empty(t, v.Email)
	require.Equal(t, InvalidTokenMessage, v.Message)
}

func TestUpdatePassword(t *testing.T) {
	s := newTestAccountService(0)
	ctx := context.Background()

	require.ErrorIs(t, s.UpdatePassword(ctx, "", "12345678"), ErrMissingFields)
	require.ErrorIs(t, s.UpdatePassword(ctx, MockAccountEmail, ""), ErrMissingFields)
	require.ErrorIs(t, s.UpdatePassword(ctx, MockAccountEmail, "1234567"), ErrPasswordTooShort)
	require.ErrorIs(t, s.UpdatePassword(ctx, MockAccountEmail, "ñandú12"), ErrPasswordTooShort)
	require.ErrorIs(t, s.UpdatePassword(ctx, MockAccountEmail, strings.Repeat("a", 73)), ErrPasswordTooLong)

	require.NoError(t, s.UpdatePassword(ctx, MockAccountEmail, "12345678"))
	require.True(t, s.CheckPassword(MockAccountEmail, "12345678"))
	require.True(t, s.CheckPassword("USER@example.com", "12345678"))
	require.False(t, s.CheckPassword(MockAccountEmail, "wrong-password"))
}

func TestUpdatePassword_HonorsContextDuringDelay(t *testing.T) {
	s := newTestAccountService(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.UpdatePassword(ctx, MockAccountEmail, "12345678")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, s.CheckPassword(MockAccountEmail, "12345678"))
}

func TestRecoverPassword(t *testing.T) {
	s := newTestAccountService(0)
	ctx := context.Background()

	require.ErrorIs(t, s.RecoverPassword(ctx, "  "), ErrInvalidRecoverEmail)
	require.NoError(t, s.RecoverPassword(ctx, MockAccountEmail))
	require.NoError(t, s.RecoverPassword(ctx, "nobody@example.com"))
}

func TestResetURL(t *testing.T) {
	e := NewEmailService("", "noreply@example.com", "http://localhost:8090", "El Arca", true)
	require.Equal(t, "http://localhost:8090/reset-password?token=valid-a%2Bb", e.ResetURL("valid-a+b"))
}

func TestSendPasswordResetEmail_ProductionWithoutKey(t *testing.T) {
	e := NewEmailService("", "noreply@example.com", "https://example.com", "El Arca", false)
	err := e.SendPasswordResetEmail(context.Background(), MockAccountEmail, "valid-1")
	require.Error(t, err)
}
