package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elarca/resetweb/internal/app"
	"github.com/elarca/resetweb/internal/config"
	"github.com/elarca/resetweb/internal/flow"
)

// newTestServer runs the full app with the mock backend and the proxy both
// pointing back at itself.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	srv := httptest.NewUnstartedServer(nil)
	appURL := "http://" + srv.Listener.Addr().String()

	cfg := &config.Config{
		AppName:           "El Arca",
		AppEnv:            "development",
		AppURL:            appURL,
		APIBaseURL:        "/api",
		AppScheme:         "ElArcaApp",
		PasswordMinLength: 8,
		ShowTokenCopy:     true,
		ProxyEnabled:      true,
		BackendBaseURL:    appURL + "/api",
		MockEnabled:       true,
		EmailFrom:         "noreply@example.com",
	}

	a, err := app.New(cfg)
	require.NoError(t, err)

	srv.Config.Handler = SetupRoutes(a)
	srv.Start()
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, target string) (int, string) {
	t.Helper()
	resp, err := c.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, c *http.Client, srvURL, path string, form url.Values) (int, string) {
	t.Helper()
	u, err := url.Parse(srvURL)
	require.NoError(t, err)
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == "csrf_token" {
			form.Set("csrf_token", cookie.Value)
		}
	}

	resp, err := c.PostForm(srvURL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestPages(t *testing.T) {
	srv, c := newTestServer(t)

	status, body := get(t, c, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Forgot your password?")

	status, _ = get(t, c, srv.URL+"/healthz")
	require.Equal(t, http.StatusOK, status)

	status, _ = get(t, c, srv.URL+"/does-not-exist")
	require.Equal(t, http.StatusNotFound, status)
}

func TestForgotPasswordThroughMock(t *testing.T) {
	srv, c := newTestServer(t)

	status, _ := get(t, c, srv.URL+"/forgot-password")
	require.Equal(t, http.StatusOK, status)

	for _, email := range []string{"user@example.com", "nobody@example.com"} {
		status, body := postForm(t, c, srv.URL, "/forgot-password", url.Values{"email": {email}})
		require.Equal(t, http.StatusOK, status)
		require.Contains(t, body, flow.GenericConfirmation, email)
	}
}

func TestResetPasswordThroughMock(t *testing.T) {
	srv, c := newTestServer(t)

	status, body := get(t, c, srv.URL+"/reset-password?token=valid-e2e")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "user@example.com")

	status, body = postForm(t, c, srv.URL, "/reset-password", url.Values{
		"token":    {"valid-e2e"},
		"password": {"new-password-1"},
		"confirm":  {"new-password-1"},
	})
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, flow.PasswordUpdatedMessage)
	require.Contains(t, body, "ElArcaApp://login")
}

func TestResetPassword_RequiresCSRF(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.PostForm(srv.URL+"/reset-password", url.Values{"token": {"valid-1"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMockAndProxyEndpoints(t *testing.T) {
	srv, c := newTestServer(t)

	status, _ := get(t, c, srv.URL+"/api/user/verify-token")
	require.Equal(t, http.StatusBadRequest, status)

	status, body := get(t, c, srv.URL+"/api/proxy/user/verify-token?token=valid-via-proxy")
	require.Equal(t, http.StatusOK, status)

	var verification map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &verification))
	require.Equal(t, true, verification["valid"])
	require.Equal(t, "user@example.com", verification["email"])

	resp, err := c.Post(srv.URL+"/api/proxy/user/update-password", "application/json", strings.NewReader(`{"email":"user@example.com","password":"short"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNotFoundShowsPath(t *testing.T) {
	srv, c := newTestServer(t)

	status, body := get(t, c, srv.URL+"/missing-page")
	require.Equal(t, http.StatusNotFound, status)
	require.Contains(t, body, "/missing-page")
}
