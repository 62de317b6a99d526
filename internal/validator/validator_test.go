package validator

import "testing"

func TestCheckAccumulatesErrors(t *testing.T) {
	v := New()

	if !v.IsValid() {
		t.Fatal("new validator should be valid")
	}

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "a later message must not overwrite")
	v.Check(true, "content", "must be provided")

	if v.IsValid() {
		t.Fatal("validator with errors should be invalid")
	}
	if got := v.Errors["title"]; got != "must be provided" {
		t.Fatalf("first error overwritten: %q", got)
	}
	if _, exists := v.Errors["content"]; exists {
		t.Fatal("passing check recorded an error")
	}
}

func TestCheckNotBlank(t *testing.T) {
	v := New()
	v.CheckNotBlank("   ", "firstName", "must be provided")

	if v.IsValid() {
		t.Fatal("whitespace-only value should be rejected")
	}
}

func TestCheckEmail(t *testing.T) {
	valid := []string{"reader@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "plainaddress", "@no-local.com", "user@"}

	for _, email := range valid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if !v.IsValid() {
			t.Errorf("valid email rejected: %q", email)
		}
	}
	for _, email := range invalid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if v.IsValid() {
			t.Errorf("invalid email accepted: %q", email)
		}
	}
}

func TestCheckPhone(t *testing.T) {
	valid := []string{"+14155550123", "09123456789"}
	invalid := []string{"", "12345", "phone-number", "+1 415 555 0123"}

	for _, phone := range valid {
		v := New()
		v.CheckPhone(phone, "must be a valid phone number")
		if !v.IsValid() {
			t.Errorf("valid phone rejected: %q", phone)
		}
	}
	for _, phone := range invalid {
		v := New()
		v.CheckPhone(phone, "must be a valid phone number")
		if v.IsValid() {
			t.Errorf("invalid phone accepted: %q", phone)
		}
	}
}

func TestIsUnique(t *testing.T) {
	v := New()

	if !v.IsUnique([]string{"tech", "science", "health"}) {
		t.Fatal("distinct values reported as duplicates")
	}
	if v.IsUnique([]string{"tech", "science", "tech"}) {
		t.Fatal("duplicate values reported as unique")
	}
}
