package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/elarca/resetweb/internal/config"
	"github.com/elarca/resetweb/internal/flow"
	"github.com/elarca/resetweb/internal/ui"
	"github.com/elarca/resetweb/internal/ui/pages"
)

// ResetAPI is the backend surface the reset pages need.
type ResetAPI interface {
	flow.RecoveryRequester
	flow.ResetClient
}

// ResetHandler serves both reset pages. Every request gets fresh flows; no
// flow state outlives the request that created it.
type ResetHandler struct {
	api           ResetAPI
	minLength     int
	appScheme     string
	showTokenCopy bool
}

func NewResetHandler(api ResetAPI, cfg *config.Config) *ResetHandler {
	return &ResetHandler{
		api:           api,
		minLength:     cfg.PasswordMinLength,
		appScheme:     cfg.AppScheme,
		showTokenCopy: cfg.ShowTokenCopy,
	}
}

func (h *ResetHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ForgotPassword(pages.ForgotPasswordProps{}))
}

func (h *ResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	f := flow.NewRequestResetFlow(h.api)

	state, err := f.Submit(r.Context(), r.FormValue("email"))
	if err != nil {
		slog.Warn("forgot password submit rejected", "error", err)
	}

	ui.Render(w, r, pages.ForgotPassword(pages.ForgotPasswordProps{
		Email: f.Email(),
		State: state,
	}))
}

func (h *ResetHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	f := h.newResetFlow()

	_, err := f.SetToken(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		slog.Warn("token verification rejected", "error", err)
	}

	ui.Render(w, r, pages.ResetPassword(h.resetProps(f)))
}

// ResetPassword re-verifies the posted token before submitting, so an update
// is never attempted for an email the backend did not vouch for.
func (h *ResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	f := h.newResetFlow()

	_, err := f.SetToken(r.Context(), r.FormValue("token"))
	if err != nil {
		slog.Warn("token verification rejected", "error", err)
	}

	if f.CanSubmit() {
		_, err = f.Submit(r.Context(), r.FormValue("password"), r.FormValue("confirm"))
		if err != nil {
			slog.Warn("password update rejected", "error", err)
		}
	}

	ui.Render(w, r, pages.ResetPassword(h.resetProps(f)))
}

// SubmitToken handles a pasted token by redirecting to the link form of the page.
func (h *ResetHandler) SubmitToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.FormValue("token"))
	target := "/reset-password"
	if token != "" {
		target += "?token=" + url.QueryEscape(token)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *ResetHandler) newResetFlow() *flow.ResetPasswordFlow {
	return flow.NewResetPasswordFlow(h.api, h.minLength, h.appScheme)
}

func (h *ResetHandler) resetProps(f *flow.ResetPasswordFlow) pages.ResetPasswordProps {
	return pages.ResetPasswordProps{
		Token:         f.Token(),
		Email:         f.Email(),
		State:         f.State(),
		CanSubmit:     f.CanSubmit(),
		NeedsToken:    f.Phase() == flow.ResetNoToken,
		MinLength:     f.MinLength(),
		ShowTokenCopy: h.showTokenCopy,
		DeepLink:      f.DeepLink(),
	}
}
