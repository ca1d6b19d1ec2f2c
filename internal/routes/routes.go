package routes

import (
	"net/http"

	"github.com/elarca/resetweb/internal/app"
	"github.com/elarca/resetweb/internal/handler"
	"github.com/elarca/resetweb/internal/middleware"
	"github.com/elarca/resetweb/internal/proxy"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	reset := handler.NewResetHandler(app.Client, app.Cfg)

	mux := http.NewServeMux()

	// ============================================================================
	// PAGES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /healthz", home.Health)

	// Reset flow (submissions rate limited)
	rateLimiter := middleware.RateLimitForms()

	mux.HandleFunc("GET /forgot-password", reset.ForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", rateLimiter(reset.ForgotPassword))
	mux.HandleFunc("GET /reset-password", reset.ResetPasswordPage)
	mux.HandleFunc("POST /reset-password", rateLimiter(reset.ResetPassword))
	mux.HandleFunc("POST /reset-password/token", reset.SubmitToken)

	// ============================================================================
	// DEVELOPMENT BACKENDS
	// ============================================================================

	if app.AccountService != nil {
		mock := handler.NewMockHandler(app.AccountService)
		mux.HandleFunc("GET /api/user/verify-token", mock.VerifyToken)
		mux.HandleFunc("POST /api/user/update-password", mock.UpdatePassword)
		mux.HandleFunc("POST /api/user/recover-password", mock.RecoverPassword)
	}

	if app.Proxy != nil {
		mux.Handle(proxy.Pattern, app.Proxy)
	}

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.WithURLPath,
	)

	return handler
}
