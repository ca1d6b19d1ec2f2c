// Package flow holds the two password-reset state machines pages drive:
// requesting a reset email, and verifying a token then choosing a new password.
//
// A flow serializes its own calls: starting a call while one is in flight
// returns ErrBusy and leaves the state untouched. Errors never escape a flow;
// they become user-facing messages in its FlowState.
package flow

import (
	"errors"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/validation"
)

var ErrBusy = errors.New("flow: a request is already in progress")

const (
	GenericConfirmation     = "If an account exists for that email, you will receive a link to reset your password shortly."
	InvalidEmailMessage     = "Please enter a valid email address"
	RequestFailedMessage    = "Could not send the reset email. Please try again."
	NoTokenMessage          = "Open the link from your email or paste your reset token to continue"
	VerifyingMessage        = "Verifying your reset link..."
	InvalidTokenMessage     = "Invalid or expired token"
	NotVerifiedMessage      = "Verify your reset link before choosing a new password"
	AlreadyUpdatedMessage   = "Your password has already been updated"
	PasswordMismatchMessage = "Passwords do not match"
	PasswordUpdatedMessage  = "Your password has been updated"
	PolicyViolationMessage  = "The new password violates the server's password policy. Please choose a different one."
	UpdateFailedMessage     = "Could not update password. Please try again."
)

// messageOf extracts the user-facing text of a client failure.
func messageOf(err error, fallback string) string {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
