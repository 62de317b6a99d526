package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexaread/backend/internal/auth"
)

// newTestApplication builds an application without a database. The routes
// exercised here all reject the request before any storage access.
func newTestApplication() *application {
	return &application{
		config: config{
			env:         "test",
			frontendURL: "http://localhost:5173",
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		auth:   auth.NewAuth("test-access-secret", "test-refresh-secret"),
	}
}

func TestProtectedRouteRequiresAuthentication(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/articles/articles")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestMalformedAuthorizationHeaderIsRejected(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	tests := []struct {
		name   string
		header string
	}{
		{"missing scheme", "some-token"},
		{"wrong scheme", "Basic some-token"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, server.URL+"/api/articles/articles", nil)
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			req.Header.Set("Authorization", tt.header)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusUnauthorized)
			}
			if got := resp.Header.Get("WWW-Authenticate"); got != "Bearer" {
				t.Fatalf("got WWW-Authenticate %q, want Bearer", got)
			}
		})
	}
}

// A refresh token must not open authenticated routes even though it is a
// valid signed token.
func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	refreshToken, err := app.auth.IssueRefreshToken(1)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/articles/articles", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestRefreshEndpointRequiresCookie(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/users/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestVerifyEmailRequiresToken(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/users/verify-email")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/users/login", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("got Access-Control-Allow-Origin %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("got Access-Control-Allow-Credentials %q", got)
	}
}

func TestCORSUnknownOriginGetsNoHeader(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/users/login", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allowed unknown origin: %q", got)
	}
}
