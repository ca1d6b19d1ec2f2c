package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/elarca/resetweb/internal/model"
	"github.com/elarca/resetweb/internal/service"
)

// MockHandler exposes the mock user backend under /api/user.
type MockHandler struct {
	accountService *service.AccountService
}

func NewMockHandler(accountService *service.AccountService) *MockHandler {
	return &MockHandler{accountService: accountService}
}

func (h *MockHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeMessage(w, http.StatusBadRequest, "Missing token")
		return
	}

	writeJSON(w, http.StatusOK, h.accountService.VerifyToken(token))
}

func (h *MockHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordUpdate
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err = h.accountService.UpdatePassword(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.PasswordUpdateResult{OK: true, Email: req.Email})
	case errors.Is(err, service.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeMessage(w, http.StatusUnprocessableEntity, "Password too short")
	case errors.Is(err, service.ErrPasswordTooLong):
		writeMessage(w, http.StatusUnprocessableEntity, "Password too long")
	default:
		slog.Error("mock password update failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Could not update password")
	}
}

// RecoverPassword always answers 204 so callers cannot probe for accounts.
func (h *MockHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req model.RecoveryRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		slog.Debug("mock recover-password: malformed body", "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err = h.accountService.RecoverPassword(r.Context(), req.Email)
	if err != nil {
		slog.Debug("mock recover-password: rejected", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
