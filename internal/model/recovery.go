package model

// RecoveryRequest asks the backend to email a reset link.
type RecoveryRequest struct {
	Email string `json:"email"`
}

// TokenVerification is the backend's verdict on a reset token.
// Email is only set when Valid is true.
type TokenVerification struct {
	Token   string `json:"-"`
	Valid   bool   `json:"valid"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

// HasEmail reports whether the verification carries a usable account email.
func (v *TokenVerification) HasEmail() bool {
	return v != nil && v.Valid && v.Email != ""
}

// PasswordUpdate sets a new password for the verified email.
type PasswordUpdate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordUpdateResult is the success body of an update.
type PasswordUpdateResult struct {
	OK    bool   `json:"ok"`
	Email string `json:"email,omitempty"`
}
