package flow

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/model"
)

func TestRequestReset_InvalidEmailNeverCallsBackend(t *testing.T) {
	for _, email := range []string{"", "   ", "no-at-sign", "a@b", "a b@c.d", "@example.com"} {
		t.Run(email, func(t *testing.T) {
			api := &fakeAPI{}
			f := NewRequestResetFlow(api)

			state, err := f.Submit(context.Background(), email)
			require.NoError(t, err)
			require.Equal(t, model.FlowError, state.Status)
			require.Equal(t, InvalidEmailMessage, state.Message)
			require.Equal(t, RequestRejected, f.Phase())

			recoverCalls, _, _ := api.calls()
			require.Zero(t, recoverCalls)
		})
	}
}

func TestRequestReset_GenericConfirmation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success", err: nil},
		{name: "not found response", err: &client.APIError{Status: 404, Message: "User not found"}},
		{name: "server error response", err: &client.APIError{Status: 500, Message: "boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{recoverErr: tt.err}
			f := NewRequestResetFlow(api)

			state, err := f.Submit(context.Background(), "  user@example.com ")
			require.NoError(t, err)
			require.Equal(t, model.FlowSuccess, state.Status)
			require.Equal(t, GenericConfirmation, state.Message)
			require.Equal(t, RequestSucceeded, f.Phase())
			require.Equal(t, []string{"user@example.com"}, api.recoverCalls)
		})
	}
}

func TestRequestReset_TransportErrorSurfaces(t *testing.T) {
	api := &fakeAPI{recoverErr: &client.APIError{
		Status:  0,
		Message: "Network error: connection refused",
		Err:     syscall.ECONNREFUSED,
	}}
	f := NewRequestResetFlow(api)

	state, err := f.Submit(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, model.FlowError, state.Status)
	require.Equal(t, "Network error: connection refused", state.Message)
	require.Equal(t, RequestFailed, f.Phase())
}

func TestRequestReset_MissingBaseURL(t *testing.T) {
	api := &fakeAPI{recoverErr: client.ErrNoBaseURL}
	f := NewRequestResetFlow(api)

	state, err := f.Submit(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, model.FlowError, state.Status)
	require.Equal(t, client.ErrNoBaseURL.Message, state.Message)
}

func TestRequestReset_UnknownError(t *testing.T) {
	api := &fakeAPI{recoverErr: errors.New("surprise")}
	f := NewRequestResetFlow(api)

	state, err := f.Submit(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, RequestFailedMessage, state.Message)
}

func TestRequestReset_BusyWhileInFlight(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{})}
	f := NewRequestResetFlow(api)

	done := make(chan model.FlowState)
	go func() {
		state, _ := f.Submit(context.Background(), "user@example.com")
		done <- state
	}()

	require.Eventually(t, func() bool {
		return f.Phase() == RequestRequesting
	}, time.Second, time.Millisecond)
	require.True(t, f.State().IsLoading())

	_, err := f.Submit(context.Background(), "other@example.com")
	require.ErrorIs(t, err, ErrBusy)
	require.Equal(t, "user@example.com", f.Email())

	close(api.block)
	state := <-done
	require.True(t, state.IsSuccess())

	recoverCalls, _, _ := api.calls()
	require.Equal(t, 1, recoverCalls)
}
