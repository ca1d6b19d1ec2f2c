package repository

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/elarca/resetweb/internal/model"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository interface {
	ByEmail(email string) (*model.Account, error)
	SetPasswordHash(email, hash string) error
}

// accountRepository keeps accounts in memory; the mock backend has no database.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

// NewAccountRepository creates a store seeded with the given emails.
func NewAccountRepository(seed ...string) AccountRepository {
	r := &accountRepository{accounts: make(map[string]*model.Account)}
	for _, email := range seed {
		key := normalizeEmail(email)
		r.accounts[key] = &model.Account{Email: key, UpdatedAt: time.Now()}
	}
	return r
}

func (r *accountRepository) ByEmail(email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[normalizeEmail(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}

	// Copy so callers cannot mutate the store
	found := *account
	return &found, nil
}

// SetPasswordHash stores hash for email, creating the account if needed.
func (r *accountRepository) SetPasswordHash(email, hash string) error {
	key := normalizeEmail(email)
	if key == "" {
		return errors.New("email is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[key]
	if !ok {
		account = &model.Account{Email: key}
		r.accounts[key] = account
	}
	account.PasswordHash = &hash
	account.UpdatedAt = time.Now()
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
