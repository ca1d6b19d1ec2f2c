package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingTransport answers from respond and remembers every request it saw.
type recordingTransport struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	respond  func(r *http.Request) (*http.Response, error)
}

func (t *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	var body string
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}
	t.mu.Lock()
	t.requests = append(t.requests, r)
	t.bodies = append(t.bodies, body)
	t.mu.Unlock()
	return t.respond(r)
}

func (t *recordingTransport) hosts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	hosts := make([]string, 0, len(t.requests))
	for _, r := range t.requests {
		hosts = append(hosts, r.URL.Host)
	}
	return hosts
}

func refused(r *http.Request) error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
}

func okResponse(r *http.Request, contentType, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set("Connection", "close")
	h.Set("Keep-Alive", "timeout=5")
	h.Set("X-Backend", "yes")
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func newTestProxy(t *testing.T, backend string, rt http.RoundTripper) *Proxy {
	t.Helper()
	p, err := New(backend, &http.Client{Transport: rt})
	require.NoError(t, err)
	return p
}

// serve routes req through a mux so the {path...} wildcard is populated.
func serve(p *Proxy, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.Handle(Pattern, p)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresAbsoluteBase(t *testing.T) {
	_, err := New("/relative", nil)
	require.Error(t, err)

	_, err = New("localhost:8080", nil)
	require.Error(t, err)

	p, err := New("http://localhost:8080", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestTargetURL(t *testing.T) {
	p, err := New("http://localhost:8080/base/", nil)
	require.NoError(t, err)

	target := p.TargetURL("verify-token", "token=valid%2Babc&x=1")
	require.Equal(t, "http://localhost:8080/base/user/verify-token?token=valid%2Babc&x=1", target.String())

	target = p.TargetURL("/nested/path", "")
	require.Equal(t, "http://localhost:8080/base/user/nested/path", target.String())
}

func TestServeHTTP_ForwardsAndStripsHopByHop(t *testing.T) {
	rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
		return okResponse(r, "application/json", `{"valid":true}`), nil
	}}
	p := newTestProxy(t, "http://backend.internal:8080", rt)

	req := httptest.NewRequest(http.MethodGet, "/api/proxy/user/verify-token?token=valid-1", nil)
	req.Header.Set("Connection", "keep-alive, X-Secret-Hop")
	req.Header.Set("X-Secret-Hop", "drop me")
	req.Header.Set("Keep-Alive", "timeout=5")
	req.Header.Set("Transfer-Encoding", "chunked")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Proxy-Authorization", "Basic abc")
	req.Header.Set("Authorization", "Bearer keep")
	req.Header.Set("X-Request-Id", "req-1")

	rec := serve(p, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"valid":true}`, rec.Body.String())
	require.Equal(t, "yes", rec.Header().Get("X-Backend"))
	require.Empty(t, rec.Header().Get("Connection"))
	require.Empty(t, rec.Header().Get("Keep-Alive"))

	require.Len(t, rt.requests, 1)
	sent := rt.requests[0]
	require.Equal(t, "http://backend.internal:8080/user/verify-token?token=valid-1", sent.URL.String())
	require.Equal(t, "Bearer keep", sent.Header.Get("Authorization"))
	require.Equal(t, "req-1", sent.Header.Get("X-Request-Id"))
	for _, h := range []string{"Connection", "Keep-Alive", "Transfer-Encoding", "Upgrade", "Proxy-Authorization", "X-Secret-Hop"} {
		require.Empty(t, sent.Header.Get(h), h)
	}
}

func TestServeHTTP_ForwardsBody(t *testing.T) {
	rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
		return okResponse(r, "application/json", `{"ok":true}`), nil
	}}
	p := newTestProxy(t, "http://backend.internal", rt)

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/user/update-password", strings.NewReader(`{"email":"a@b.co","password":"12345678"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(p, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{`{"email":"a@b.co","password":"12345678"}`}, rt.bodies)
	require.Equal(t, http.MethodPost, rt.requests[0].Method)
}

func TestForward_RetriesLocalhostOnceOn127(t *testing.T) {
	rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
		if r.URL.Hostname() == "localhost" {
			return nil, refused(r)
		}
		return okResponse(r, "text/plain", "hello"), nil
	}}
	p := newTestProxy(t, "http://localhost:8080", rt)

	req := httptest.NewRequest(http.MethodPost, "/api/proxy/user/recover-password", strings.NewReader(`{"email":"a@b.co"}`))
	rec := serve(p, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
	require.Equal(t, []string{"localhost:8080", "127.0.0.1:8080"}, rt.hosts())
	require.Equal(t, rt.bodies[0], rt.bodies[1], "body replayed on retry")
}

func TestForward_RetryFailureIs502(t *testing.T) {
	rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
		return nil, refused(r)
	}}
	p := newTestProxy(t, "http://localhost:8080", rt)

	rec := serve(p, httptest.NewRequest(http.MethodGet, "/api/proxy/user/verify-token?token=x", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, []string{"localhost:8080", "127.0.0.1:8080"}, rt.hosts(), "exactly one retry")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Bad Gateway", body["error"])
	require.Contains(t, body["message"], "proxy request failed")
}

func TestForward_NoRetryForOtherHostsOrErrors(t *testing.T) {
	t.Run("refused on non-localhost host", func(t *testing.T) {
		rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
			return nil, refused(r)
		}}
		p := newTestProxy(t, "http://backend.internal:8080", rt)

		rec := serve(p, httptest.NewRequest(http.MethodGet, "/api/proxy/user/verify-token", nil))
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, []string{"backend.internal:8080"}, rt.hosts())
	})

	t.Run("other error on localhost", func(t *testing.T) {
		rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("tls handshake timeout")
		}}
		p := newTestProxy(t, "http://localhost:8080", rt)

		rec := serve(p, httptest.NewRequest(http.MethodGet, "/api/proxy/user/verify-token", nil))
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, []string{"localhost:8080"}, rt.hosts())
	})
}

func TestForward_UpstreamErrorStatusPassesThrough(t *testing.T) {
	rt := &recordingTransport{respond: func(r *http.Request) (*http.Response, error) {
		resp := okResponse(r, "application/json", `{"message":"Password too short"}`)
		resp.StatusCode = http.StatusUnprocessableEntity
		return resp, nil
	}}
	p := newTestProxy(t, "http://localhost:8080", rt)

	rec := serve(p, httptest.NewRequest(http.MethodPost, "/api/proxy/user/update-password", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, rt.hosts(), 1)
}

func TestForward_AgainstRealListener(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	}))
	defer backend.Close()

	p := newTestProxy(t, backend.URL, http.DefaultTransport)
	u, err := url.Parse(backend.URL + "/user/verify-token")
	require.NoError(t, err)

	resp, err := p.Forward(context.Background(), http.MethodGet, u, http.Header{}, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"path":"/user/verify-token"}`, string(raw))
}
