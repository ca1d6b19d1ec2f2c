package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elarca/resetweb/internal/model"
	"github.com/elarca/resetweb/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MockAccountEmail is the account every valid mock token resolves to.
	MockAccountEmail = "user@example.com"

	// ValidTokenPrefix marks tokens the mock backend accepts.
	ValidTokenPrefix = "valid"

	InvalidTokenMessage = "Token inválido o expirado"

	mockMinPasswordLength = 8
	bcryptMaxLength       = 72 // bytes
)

var (
	ErrMissingFields       = errors.New("email and password are required")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrPasswordTooLong     = errors.New("password too long")
	ErrInvalidRecoverEmail = errors.New("email is required")
)

// AccountService implements the mock user backend: it stands in for the real
// API during local development and tests.
type AccountService struct {
	accountRepository repository.AccountRepository
	emailService      *EmailService
	delay             time.Duration
}

func NewAccountService(accountRepository repository.AccountRepository, emailService *EmailService, delay time.Duration) *AccountService {
	return &AccountService{
		accountRepository: accountRepository,
		emailService:      emailService,
		delay:             delay,
	}
}

// RecoverPassword emails a reset link when the account exists. The caller
// cannot tell whether it did: the email is sent in the background and the
// result is always nil for a non-empty address.
func (s *AccountService) RecoverPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrInvalidRecoverEmail
	}

	account, err := s.accountRepository.ByEmail(email)
	if err != nil {
		slog.Info("password recovery requested for unknown email", "email", email)
		return nil
	}

	token := ValidTokenPrefix + "-" + uuid.New().String()
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		sendErr := s.emailService.SendPasswordResetEmail(sendCtx, account.Email, token)
		if sendErr != nil {
			slog.Error("failed to send password reset email", "error", sendErr, "email", account.Email)
		}
	}()

	return nil
}

// VerifyToken accepts any token starting with "valid".
func (s *AccountService) VerifyToken(token string) *model.TokenVerification {
	if strings.HasPrefix(token, ValidTokenPrefix) {
		return &model.TokenVerification{Token: token, Valid: true, Email: MockAccountEmail}
	}
	return &model.TokenVerification{Token: token, Valid: false, Message: InvalidTokenMessage}
}

// UpdatePassword waits the simulated backend delay, then stores a bcrypt hash.
func (s *AccountService) UpdatePassword(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(password) < mockMinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > bcryptMaxLength {
		return ErrPasswordTooLong
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.accountRepository.SetPasswordHash(email, string(hashedBytes))
	if err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	slog.Info("mock password updated", "email", email)
	return nil
}

// CheckPassword reports whether password matches the stored hash for email.
func (s *AccountService) CheckPassword(email, password string) bool {
	account, err := s.accountRepository.ByEmail(email)
	if err != nil || !account.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)) == nil
}
