package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendEmailPostsToAPI(t *testing.T) {
	var gotRequest sendEmailRequest
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		gotAPIKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := NewSender("test-key", "noreply@nexaread.com", "NexaRead").WithAPIURL(server.URL)

	err := sender.SendEmail(context.Background(), "reader@example.com", "Hello", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("send email: %v", err)
	}

	if gotAPIKey != "test-key" {
		t.Fatalf("got api key %q, want test-key", gotAPIKey)
	}
	if gotRequest.Sender["email"] != "noreply@nexaread.com" {
		t.Fatalf("got sender %v", gotRequest.Sender)
	}
	if len(gotRequest.To) != 1 || gotRequest.To[0]["email"] != "reader@example.com" {
		t.Fatalf("got recipients %v", gotRequest.To)
	}
	if gotRequest.Subject != "Hello" || gotRequest.HTMLContent != "<p>Hi</p>" {
		t.Fatalf("got subject %q content %q", gotRequest.Subject, gotRequest.HTMLContent)
	}
}

func TestSendEmailRejectsAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewSender("bad-key", "noreply@nexaread.com", "NexaRead").WithAPIURL(server.URL)

	err := sender.SendEmail(context.Background(), "reader@example.com", "Hello", "<p>Hi</p>")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestUnconfiguredSenderFails(t *testing.T) {
	sender := NewSender("", "", "")

	if sender.IsConfigured() {
		t.Fatal("sender without credentials reported as configured")
	}

	err := sender.SendEmail(context.Background(), "reader@example.com", "Hello", "<p>Hi</p>")
	if err == nil {
		t.Fatal("expected error from unconfigured sender")
	}
}

func TestSendVerificationEmailBuildsLink(t *testing.T) {
	var gotRequest sendEmailRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := NewSender("test-key", "noreply@nexaread.com", "NexaRead").WithAPIURL(server.URL)

	err := sender.SendVerificationEmail(context.Background(), "reader@example.com", "https://app.nexaread.com", "tok123")
	if err != nil {
		t.Fatalf("send verification email: %v", err)
	}

	if gotRequest.Subject != "Verify Your Email" {
		t.Fatalf("got subject %q", gotRequest.Subject)
	}
	if !strings.Contains(gotRequest.HTMLContent, "https://app.nexaread.com/verify-email?token=tok123") {
		t.Fatal("verification link missing from email body")
	}
}
