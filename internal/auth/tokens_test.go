package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestAuth() *Auth {
	return NewAuth("access-secret-for-tests", "refresh-secret-for-tests")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	a := newTestAuth()

	token, err := a.IssueAccessToken(42)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	userID, err := a.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("got user id %d, want 42", userID)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	a := newTestAuth()

	token, err := a.IssueRefreshToken(7)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	userID, err := a.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	if userID != 7 {
		t.Fatalf("got user id %d, want 7", userID)
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	a := newTestAuth()

	token, err := a.IssueVerificationToken(99)
	if err != nil {
		t.Fatalf("issue verification token: %v", err)
	}

	userID, err := a.VerifyVerificationToken(token)
	if err != nil {
		t.Fatalf("verify verification token: %v", err)
	}
	if userID != 99 {
		t.Fatalf("got user id %d, want 99", userID)
	}
}

// A verification token must never pass as an access token even though both
// are signed with the same secret.
func TestPurposeIsEnforced(t *testing.T) {
	a := newTestAuth()

	verificationToken, err := a.IssueVerificationToken(1)
	if err != nil {
		t.Fatalf("issue verification token: %v", err)
	}

	if _, err := a.VerifyAccessToken(verificationToken); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("verification token accepted as access token, err = %v", err)
	}

	accessToken, err := a.IssueAccessToken(1)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	if _, err := a.VerifyVerificationToken(accessToken); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("access token accepted as verification token, err = %v", err)
	}
}

func TestRefreshSecretIsDistinct(t *testing.T) {
	a := newTestAuth()

	refreshToken, err := a.IssueRefreshToken(1)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := a.VerifyAccessToken(refreshToken); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("refresh token accepted as access token, err = %v", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	a := newTestAuth()

	token, err := a.issueToken(1, PurposeAccess, -time.Minute, a.accessSecret)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := a.VerifyAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	a := newTestAuth()

	if _, err := a.VerifyAccessToken("not-a-token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenPairVerifiesOnBothPaths(t *testing.T) {
	a := newTestAuth()

	pair, err := a.IssueTokenPair(5)
	if err != nil {
		t.Fatalf("issue token pair: %v", err)
	}

	if userID, err := a.VerifyAccessToken(pair.AccessToken); err != nil || userID != 5 {
		t.Fatalf("access token: id=%d err=%v", userID, err)
	}
	if userID, err := a.VerifyRefreshToken(pair.RefreshToken); err != nil || userID != 5 {
		t.Fatalf("refresh token: id=%d err=%v", userID, err)
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	if string(user.Password) == "correct horse battery" {
		t.Fatal("password stored in plain text")
	}

	match, err := user.IsPasswordMatch("correct horse battery")
	if err != nil {
		t.Fatalf("password match: %v", err)
	}
	if !match {
		t.Fatal("correct password did not match")
	}

	match, err = user.IsPasswordMatch("wrong password")
	if err != nil {
		t.Fatalf("password mismatch: %v", err)
	}
	if match {
		t.Fatal("wrong password matched")
	}
}
