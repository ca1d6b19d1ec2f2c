package flow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/model"
	"github.com/elarca/resetweb/internal/validation"
)

// ResetClient verifies reset tokens and applies new passwords.
type ResetClient interface {
	VerifyToken(ctx context.Context, token string) (*model.TokenVerification, error)
	UpdatePassword(ctx context.Context, email, password string) error
}

type ResetPhase string

const (
	ResetNoToken      ResetPhase = "no-token"
	ResetUnverified   ResetPhase = "unverified"
	ResetVerifying    ResetPhase = "verifying"
	ResetVerified     ResetPhase = "verified"
	ResetInvalid      ResetPhase = "invalid"
	ResetSubmitting   ResetPhase = "submitting"
	ResetUpdated      ResetPhase = "updated"
	ResetSubmitFailed ResetPhase = "submit-failed"
)

// ResetPasswordFlow verifies a reset token and then sets a new password for
// the email the backend tied to it.
type ResetPasswordFlow struct {
	mu        sync.Mutex
	client    ResetClient
	minLength int
	appScheme string

	phase ResetPhase
	state model.FlowState
	token string
	email string
}

func NewResetPasswordFlow(c ResetClient, minLength int, appScheme string) *ResetPasswordFlow {
	return &ResetPasswordFlow{
		client:    c,
		minLength: minLength,
		appScheme: appScheme,
		phase:     ResetUnverified,
		state:     model.FlowState{Status: model.FlowIdle},
	}
}

func (f *ResetPasswordFlow) Phase() ResetPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *ResetPasswordFlow) State() model.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *ResetPasswordFlow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// Email is the verified account email, empty until verification succeeds.
func (f *ResetPasswordFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *ResetPasswordFlow) MinLength() int {
	return f.minLength
}

// CanSubmit reports whether the page should offer the new-password form.
func (f *ResetPasswordFlow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email != "" && (f.phase == ResetVerified || f.phase == ResetSubmitFailed)
}

// DeepLink returns the mobile app link offered after a successful update.
func (f *ResetPasswordFlow) DeepLink() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != ResetUpdated || f.appScheme == "" {
		return ""
	}
	return f.appScheme + "://login"
}

func (f *ResetPasswordFlow) busy() bool {
	return f.phase == ResetVerifying || f.phase == ResetSubmitting
}

// SetToken (re)starts the flow for token. An empty token is not an error:
// the flow waits in the no-token state for one to be pasted.
func (f *ResetPasswordFlow) SetToken(ctx context.Context, token string) (model.FlowState, error) {
	f.mu.Lock()
	if f.busy() {
		f.mu.Unlock()
		return f.State(), ErrBusy
	}

	token = strings.TrimSpace(token)
	f.token = token
	f.email = ""

	if token == "" {
		f.phase = ResetNoToken
		f.state = model.FlowState{Status: model.FlowInfo, Message: NoTokenMessage}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	f.phase = ResetVerifying
	f.state = model.FlowState{Status: model.FlowLoading, Message: VerifyingMessage}
	f.mu.Unlock()

	verification, err := f.client.VerifyToken(ctx, token)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		slog.Warn("token verification failed", "error", err, "kind", client.KindOf(err))
		f.phase = ResetInvalid
		f.state = model.FlowState{Status: model.FlowError, Message: messageOf(err, InvalidTokenMessage)}
		return f.state, nil
	}

	if !verification.HasEmail() {
		message := verification.Message
		if message == "" {
			message = InvalidTokenMessage
		}
		f.phase = ResetInvalid
		f.state = model.FlowState{Status: model.FlowError, Message: message}
		return f.state, nil
	}

	f.phase = ResetVerified
	f.email = verification.Email
	f.state = model.FlowState{Status: model.FlowIdle}
	return f.state, nil
}

// Submit sets password for the verified email. Local checks (verified email
// on hand, minimum length, confirmation) run before any network call and keep
// the flow retryable.
func (f *ResetPasswordFlow) Submit(ctx context.Context, password, confirm string) (model.FlowState, error) {
	f.mu.Lock()
	if f.busy() {
		f.mu.Unlock()
		return f.State(), ErrBusy
	}

	if f.phase == ResetUpdated {
		f.state = model.FlowState{Status: model.FlowError, Message: AlreadyUpdatedMessage}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	if f.email == "" || (f.phase != ResetVerified && f.phase != ResetSubmitFailed) {
		f.state = model.FlowState{Status: model.FlowError, Message: NotVerifiedMessage}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	err := validation.ValidatePassword(password, f.minLength)
	if err != nil {
		f.state = model.FlowState{
			Status:  model.FlowError,
			Message: fmt.Sprintf("Password must be at least %d characters", f.minLength),
		}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	err = validation.ValidatePasswordConfirmation(password, confirm)
	if err != nil {
		f.state = model.FlowState{Status: model.FlowError, Message: PasswordMismatchMessage}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	email := f.email
	f.phase = ResetSubmitting
	f.state = model.FlowState{Status: model.FlowLoading}
	f.mu.Unlock()

	err = f.client.UpdatePassword(ctx, email, password)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.phase = ResetSubmitFailed
		if client.StatusOf(err) == http.StatusUnprocessableEntity {
			slog.Info("password rejected by server policy", "email", email)
			f.state = model.FlowState{Status: model.FlowError, Message: PolicyViolationMessage}
			return f.state, nil
		}
		slog.Warn("password update failed", "error", err, "email", email)
		f.state = model.FlowState{Status: model.FlowError, Message: messageOf(err, UpdateFailedMessage)}
		return f.state, nil
	}

	slog.Info("password updated", "email", email)
	f.phase = ResetUpdated
	f.state = model.FlowState{Status: model.FlowSuccess, Message: PasswordUpdatedMessage}
	return f.state, nil
}
