package flow

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/model"
	"github.com/elarca/resetweb/internal/validation"
)

// RecoveryRequester sends reset emails.
type RecoveryRequester interface {
	RequestRecoveryEmail(ctx context.Context, email string) error
}

type RequestPhase string

const (
	RequestIdle       RequestPhase = "idle"
	RequestValidating RequestPhase = "validating"
	RequestRejected   RequestPhase = "rejected"
	RequestRequesting RequestPhase = "requesting"
	RequestSucceeded  RequestPhase = "succeeded"
	RequestFailed     RequestPhase = "failed"
)

// RequestResetFlow drives the "send me a reset link" form.
type RequestResetFlow struct {
	mu     sync.Mutex
	client RecoveryRequester
	phase  RequestPhase
	state  model.FlowState
	email  string
}

func NewRequestResetFlow(c RecoveryRequester) *RequestResetFlow {
	return &RequestResetFlow{
		client: c,
		phase:  RequestIdle,
		state:  model.FlowState{Status: model.FlowIdle},
	}
}

func (f *RequestResetFlow) Phase() RequestPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *RequestResetFlow) State() model.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the last submitted address, trimmed.
func (f *RequestResetFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Submit validates email and asks the backend for a reset link.
//
// Whatever the backend answers, a response yields GenericConfirmation so the
// page never reveals whether the account exists. Only transport failures
// (nothing answered) surface their own message.
func (f *RequestResetFlow) Submit(ctx context.Context, email string) (model.FlowState, error) {
	f.mu.Lock()
	if f.phase == RequestValidating || f.phase == RequestRequesting {
		f.mu.Unlock()
		return f.State(), ErrBusy
	}

	email = strings.TrimSpace(email)
	f.email = email
	f.phase = RequestValidating

	err := validation.ValidateEmail(email)
	if err != nil {
		f.phase = RequestRejected
		f.state = model.FlowState{Status: model.FlowError, Message: InvalidEmailMessage}
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	f.phase = RequestRequesting
	f.state = model.FlowState{Status: model.FlowLoading}
	f.mu.Unlock()

	err = f.client.RequestRecoveryEmail(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch client.KindOf(err) {
	case client.KindUnknown:
		if err != nil {
			slog.Error("reset request failed", "error", err)
			f.phase = RequestFailed
			f.state = model.FlowState{Status: model.FlowError, Message: RequestFailedMessage}
			return f.state, nil
		}
		f.phase = RequestSucceeded
		f.state = model.FlowState{Status: model.FlowSuccess, Message: GenericConfirmation}
	case client.KindResponse:
		// Deliberately indistinguishable from success
		slog.Debug("reset request answered with error status", "status", client.StatusOf(err))
		f.phase = RequestSucceeded
		f.state = model.FlowState{Status: model.FlowSuccess, Message: GenericConfirmation}
	default:
		slog.Warn("reset request did not reach the backend", "error", err)
		f.phase = RequestFailed
		f.state = model.FlowState{Status: model.FlowError, Message: messageOf(err, RequestFailedMessage)}
	}

	return f.state, nil
}
