package flow

import (
	"context"
	"sync"

	"github.com/elarca/resetweb/internal/model"
)

// fakeAPI records calls and returns canned answers. If block is set, calls
// wait on it before answering.
type fakeAPI struct {
	mu sync.Mutex

	recoverErr   error
	verification *model.TokenVerification
	verifyErr    error
	updateErr    error
	block        chan struct{}

	recoverCalls []string
	verifyCalls  []string
	updateCalls  []model.PasswordUpdate
}

func (f *fakeAPI) wait(ctx context.Context) {
	if f.block == nil {
		return
	}
	select {
	case <-f.block:
	case <-ctx.Done():
	}
}

func (f *fakeAPI) RequestRecoveryEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	f.recoverCalls = append(f.recoverCalls, email)
	f.mu.Unlock()
	f.wait(ctx)
	return f.recoverErr
}

func (f *fakeAPI) VerifyToken(ctx context.Context, token string) (*model.TokenVerification, error) {
	f.mu.Lock()
	f.verifyCalls = append(f.verifyCalls, token)
	f.mu.Unlock()
	f.wait(ctx)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	v := *f.verification
	v.Token = token
	return &v, nil
}

func (f *fakeAPI) UpdatePassword(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.updateCalls = append(f.updateCalls, model.PasswordUpdate{Email: email, Password: password})
	f.mu.Unlock()
	f.wait(ctx)
	return f.updateErr
}

func (f *fakeAPI) calls() (recover, verify, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recoverCalls), len(f.verifyCalls), len(f.updateCalls)
}
