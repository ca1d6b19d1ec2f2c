// Package client talks to the user backend's password recovery endpoints.
// Response bodies are normalized and failures come back as *APIError, or as a
// *validation.Error when the request could not even be built.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/elarca/resetweb/internal/config"
	"github.com/elarca/resetweb/internal/ctxkeys"
	"github.com/elarca/resetweb/internal/validation"
)

type Client struct {
	baseURL    string
	appURL     string
	httpClient *http.Client
}

// New builds a client from the app configuration.
func New(cfg *config.Config) *Client {
	return NewClient(cfg.APIBaseURL, cfg.AppURL, &http.Client{Timeout: cfg.ClientTimeout})
}

// NewClient creates a client for baseURL. A baseURL without a scheme is a
// path prefix resolved against appURL.
func NewClient(baseURL, appURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSpace(baseURL),
		appURL:     strings.TrimSpace(appURL),
		httpClient: httpClient,
	}
}

// BuildURL joins path onto the configured base.
func (c *Client) BuildURL(path string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNoBaseURL
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", &validation.Error{Field: "api_base_url", Message: "API base URL is invalid"}
	}

	prefix := c.baseURL
	if base.Scheme == "" {
		origin, err := url.Parse(c.appURL)
		if err != nil || origin.Scheme == "" || origin.Host == "" {
			return "", &validation.Error{Field: "app_url", Message: "APP_URL is required to resolve a relative API base"}
		}
		prefix = origin.Scheme + "://" + origin.Host + "/" + strings.TrimLeft(c.baseURL, "/")
	}

	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(path, "/"), nil
}

// do performs the request and returns the normalized response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) (any, error) {
	target, err := c.BuildURL(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &validation.Error{Field: "url", Message: fmt.Sprintf("cannot build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := ctxkeys.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("api request failed", "method", method, "url", target, "error", err)
		return nil, &APIError{
			Status:  0,
			Message: "Network error: " + err.Error(),
			Err:     err,
		}
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	data := readBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.StatusCode),
			Data:    data,
		}
	}

	return data, nil
}

// readBody parses JSON bodies into generic values and returns anything else
// as text. Unreadable or malformed bodies count as empty.
func readBody(resp *http.Response) any {
	raw, err := io.ReadAll(resp.Body)
	if err != nil || len(raw) == 0 {
		return nil
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var v any
		err = json.Unmarshal(raw, &v)
		if err != nil {
			return nil
		}
		return v
	}

	return string(raw)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// errorMessage picks the best human message for a failed response.
func errorMessage(data any, status int) string {
	if fields, ok := data.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if msg, ok := fields[key].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackErrorMessage
}

// decode re-shapes a generic JSON value into v.
func decode(data any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
