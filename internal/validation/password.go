package validation

import (
	"fmt"
	"unicode/utf8"
)

// ValidatePassword checks the new password against the locally enforced
// minimum length, counted in characters. Anything stricter is the server's policy (422).
func ValidatePassword(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return newError("password", fmt.Sprintf("password must be at least %d characters", minLength))
	}

	return nil
}

// ValidatePasswordConfirmation ensures both password fields match.
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return newError("confirm", "passwords do not match")
	}
	return nil
}
