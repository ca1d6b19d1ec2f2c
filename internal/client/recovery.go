package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/elarca/resetweb/internal/model"
)

// RequestRecoveryEmail asks the backend to send a reset link to email.
func (c *Client) RequestRecoveryEmail(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/user/recover-password", model.RecoveryRequest{Email: email})
	return err
}

// VerifyToken asks the backend whether token is usable. The token format is
// never checked locally.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.TokenVerification, error) {
	data, err := c.do(ctx, http.MethodGet, "/user/verify-token?token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}

	verification := &model.TokenVerification{}
	if data != nil {
		err = decode(data, verification)
		if err != nil {
			slog.Warn("unexpected verify-token body", "error", err)
			verification = &model.TokenVerification{}
		}
	}
	verification.Token = token

	// An email is only meaningful for a valid token
	if !verification.Valid {
		verification.Email = ""
	}

	return verification, nil
}

// UpdatePassword sets password for email. A 422 response means the password
// violates the server's policy; callers must report that distinctly.
func (c *Client) UpdatePassword(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/user/update-password", model.PasswordUpdate{Email: email, Password: password})
	return err
}
