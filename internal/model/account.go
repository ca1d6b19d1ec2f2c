package model

import (
	"time"
)

// Account is a mock backend user. Only the mock endpoints use it.
type Account struct {
	Email        string
	PasswordHash *string // Nil until a password is set
	UpdatedAt    time.Time
}

func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
