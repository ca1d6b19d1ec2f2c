// Package proxy is a development-only forwarder that lets the pages talk to a
// backend on another origin. It is not a security boundary: any sub-path
// under the user API is forwarded as-is.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// Pattern is the route the proxy serves; {path} is forwarded below /user/.
const Pattern = "/api/proxy/user/{path...}"

// hopByHopHeaders only make sense for a single connection and are never forwarded.
var hopByHopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

type Proxy struct {
	backend *url.URL
	client  *http.Client
}

// New creates a proxy forwarding to backendBase (e.g. http://localhost:8080).
func New(backendBase string, httpClient *http.Client) (*Proxy, error) {
	backend, err := url.Parse(strings.TrimSpace(backendBase))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if backend.Scheme == "" || backend.Host == "" {
		return nil, fmt.Errorf("backend base url must be absolute: %q", backendBase)
	}
	if httpClient == nil {
		// Default client follows redirects
		httpClient = &http.Client{}
	}
	return &Proxy{backend: backend, client: httpClient}, nil
}

// TargetURL maps a captured sub-path and raw query onto the backend.
func (p *Proxy) TargetURL(subPath, rawQuery string) *url.URL {
	target := *p.backend
	target.Path = strings.TrimRight(p.backend.Path, "/") + "/user/" + strings.TrimLeft(subPath, "/")
	target.RawPath = ""
	target.RawQuery = rawQuery
	target.Fragment = ""
	return &target
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := p.TargetURL(r.PathValue("path"), r.URL.RawQuery)

	var body []byte
	if hasBody(r.Method) {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			writeBadGateway(w, fmt.Errorf("failed to read request body: %w", err))
			return
		}
	}

	resp, err := p.Forward(r.Context(), r.Method, target, r.Header, body)
	if err != nil {
		slog.Error("proxy request failed", "method", r.Method, "target", target.String(), "error", err)
		writeBadGateway(w, err)
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close proxied response body", "error", closeErr)
		}
	}()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	_, err = io.Copy(w, resp.Body)
	if err != nil {
		slog.Warn("proxy response copy interrupted", "target", target.String(), "error", err)
	}

	slog.Debug("proxied request", "method", r.Method, "target", target.String(), "status", resp.StatusCode)
}

// Forward sends the request to target. A refused connection to localhost is
// retried exactly once against 127.0.0.1; nothing else is retried.
func (p *Proxy) Forward(ctx context.Context, method string, target *url.URL, header http.Header, body []byte) (*http.Response, error) {
	resp, err := p.send(ctx, method, target, header, body)
	if err == nil {
		return resp, nil
	}

	if !isConnectionRefused(err) || target.Hostname() != "localhost" {
		return nil, err
	}

	fallback := *target
	fallback.Host = "127.0.0.1"
	if port := target.Port(); port != "" {
		fallback.Host = net.JoinHostPort("127.0.0.1", port)
	}

	slog.Warn("backend refused connection on localhost, retrying on 127.0.0.1", "target", fallback.String())
	return p.send(ctx, method, &fallback, header, body)
}

func (p *Proxy) send(ctx context.Context, method string, target *url.URL, header http.Header, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header = filterHeaders(header)

	return p.client.Do(req)
}

func hasBody(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// filterHeaders copies src without hop-by-hop headers, headers listed in
// Connection, or Host.
func filterHeaders(src http.Header) http.Header {
	drop := map[string]bool{"host": true}
	for _, value := range src.Values("Connection") {
		for _, name := range strings.Split(value, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				drop[name] = true
			}
		}
	}

	dst := make(http.Header, len(src))
	for key, values := range src {
		lower := strings.ToLower(key)
		if hopByHopHeaders[lower] || drop[lower] {
			continue
		}
		dst[key] = append([]string(nil), values...)
	}
	return dst
}

func copyHeaders(dst, src http.Header) {
	for key, values := range filterHeaders(src) {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

func writeBadGateway(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Bad Gateway",
		"message": "proxy request failed: " + err.Error(),
	})
}
