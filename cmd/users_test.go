package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterUserValidation(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	tests := []struct {
		name    string
		payload string
		wantKey string
	}{
		{"empty body", `{}`, "email"},
		{"bad email", `{"email":"not-an-email","phone":"+14155550123","firstName":"Ava","dob":"1990-01-01","password":"longenough"}`, "email"},
		{"bad phone", `{"email":"ava@example.com","phone":"abc","firstName":"Ava","dob":"1990-01-01","password":"longenough"}`, "phone"},
		{"short password", `{"email":"ava@example.com","phone":"+14155550123","firstName":"Ava","dob":"1990-01-01","password":"short"}`, "password"},
		{"bad dob", `{"email":"ava@example.com","phone":"+14155550123","firstName":"Ava","dob":"01/01/1990","password":"longenough"}`, "dob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/users/user", "application/json", bytes.NewBufferString(tt.payload))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}

			var body struct {
				Details map[string]string `json:"errorDetails"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if _, exists := body.Details[tt.wantKey]; !exists {
				t.Fatalf("expected validation error for %q, got %v", tt.wantKey, body.Details)
			}
		})
	}
}

func TestRegisterUserRejectsMalformedJSON(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/users/user", "application/json", bytes.NewBufferString(`{"email":`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestLoginRequiresIdentifier(t *testing.T) {
	app := newTestApplication()
	server := httptest.NewServer(app.routes())
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/users/login", "application/json", bytes.NewBufferString(`{"password":"longenough"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body struct {
		Details map[string]string `json:"errorDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, exists := body.Details["identifier"]; !exists {
		t.Fatalf("expected identifier error, got %v", body.Details)
	}
}
