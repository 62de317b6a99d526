package web

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = AddValueToContext(r, "user_data", 42)

	value, ok := GetValueFromContext[int](r, "user_data")
	if !ok || value != 42 {
		t.Fatalf("got %v (ok=%v), want 42", value, ok)
	}
}

func TestMissingKeyReturnsZero(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	value, ok := GetValueFromContext[int](r, "absent")
	if ok || value != 0 {
		t.Fatalf("got %v (ok=%v), want zero and false", value, ok)
	}
}

func TestWrongTypeReturnsZero(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = AddValueToContext(r, "user_data", "not-an-int")

	if _, ok := GetValueFromContext[int](r, "user_data"); ok {
		t.Fatal("type mismatch should not be ok")
	}
}

// Entries live in their own key space: a plain string key set by other code
// must not shadow or leak into ours.
func TestPlainStringKeyDoesNotCollide(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), "user_data", "outsider")) //nolint:staticcheck

	if _, ok := GetValueFromContext[string](r, "user_data"); ok {
		t.Fatal("plain string key leaked into the typed key space")
	}

	r = AddValueToContext(r, "user_data", "ours")
	if r.Context().Value("user_data") != "outsider" {
		t.Fatal("typed key overwrote the plain string entry")
	}
	value, ok := GetValueFromContext[string](r, "user_data")
	if !ok || value != "ours" {
		t.Fatalf("got %q (ok=%v), want ours", value, ok)
	}
}
