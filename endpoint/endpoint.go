// Package endpoint decides which backend address a connection attempt uses.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Placeholder marks a backend URL that was never filled in.
const Placeholder = "your-backend"

// Local development backend used when the client runs standalone.
const (
	LocalWS   = "ws://localhost:8000/ws"
	LocalHTTP = "http://localhost:8000"
)

var (
	// ErrNotConfigured means no backend address can be derived from the
	// environment. The client refuses to guess a production address.
	ErrNotConfigured = errors.New("backend URL not configured")
	// ErrInvalidURL means the configured backend URL cannot be used.
	ErrInvalidURL = errors.New("invalid backend URL")
)

// Env is everything resolution depends on.
type Env struct {
	// BackendURL is the configured base address, e.g. wss://chat.example.com.
	BackendURL string
	// Origin is where the client was launched from: empty or a file: URL
	// for a standalone run, or the address of a dev server.
	Origin string
}

// Endpoint is a resolved backend address.
type Endpoint struct {
	WS   string // channel URL
	HTTP string // base for the liveness probe
}

// HealthURL returns the liveness probe address.
func (e Endpoint) HealthURL() string {
	return strings.TrimRight(e.HTTP, "/") + "/health"
}

// IsPlaceholder reports whether u is the unedited template value.
func IsPlaceholder(u string) bool {
	return strings.Contains(u, Placeholder)
}

// Resolve applies, in order: configured URL, standalone default, loopback
// origin. Anything else is ErrNotConfigured.
func Resolve(env Env) (Endpoint, error) {
	if base := strings.TrimSpace(env.BackendURL); base != "" && !IsPlaceholder(base) {
		return fromBase(base)
	}

	origin := strings.TrimSpace(env.Origin)
	if origin == "" || strings.HasPrefix(strings.ToLower(origin), "file:") {
		return Endpoint{WS: LocalWS, HTTP: LocalHTTP}, nil
	}

	if !strings.Contains(origin, "://") {
		origin = "http://" + origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: origin %q: %v", ErrNotConfigured, env.Origin, err)
	}
	if isLoopback(u.Hostname()) {
		return Endpoint{WS: "ws://" + u.Host + "/ws", HTTP: "http://" + u.Host}, nil
	}
	return Endpoint{}, ErrNotConfigured
}

func fromBase(base string) (Endpoint, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("%w: %q has no host", ErrInvalidURL, base)
	}

	var wsScheme, httpScheme string
	switch strings.ToLower(u.Scheme) {
	case "wss", "https":
		wsScheme, httpScheme = "wss", "https"
	case "ws", "http":
		wsScheme, httpScheme = "ws", "http"
	default:
		return Endpoint{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	ws := *u
	ws.Scheme = wsScheme
	ws.Path = u.Path + "/ws"
	h := *u
	h.Scheme = httpScheme
	return Endpoint{WS: ws.String(), HTTP: h.String()}, nil
}

func isLoopback(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
