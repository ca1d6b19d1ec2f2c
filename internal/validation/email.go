package validation

import (
	"regexp"
	"strings"
)

// emailPattern is intentionally loose: non-empty local part, "@", and a
// domain containing a dot. \p{Z} extends \s to Unicode spaces such as NBSP.
// The backend owns the real rules.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

// ValidateEmail checks the trimmed address against emailPattern
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	if email == "" {
		return newError("email", "email address is required")
	}

	if !emailPattern.MatchString(email) {
		return newError("email", "invalid email address format")
	}

	return nil
}
