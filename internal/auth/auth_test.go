package auth

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
)

func TestNewRequiresPasswordOutsideDevelopment(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Email: "doctor@example.com"}); err == nil {
		t.Fatalf("expected error when password is missing in production")
	}
}

func TestDemoCredentialsInDevelopment(t *testing.T) {
	t.Parallel()

	authenticator, err := New(Options{Development: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	session, err := authenticator.Login("Admin@Example.com ", "password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" || session.Email != "admin@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestConfiguredCredentialsReplaceDemo(t *testing.T) {
	t.Parallel()

	authenticator, err := New(Options{Email: "doctor@example.com", Password: "s3cret", Development: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := authenticator.Login("admin@example.com", "password"); !eris.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected demo credentials to be rejected, got %v", err)
	}
	if _, err := authenticator.Login("doctor@example.com", "wrong"); !eris.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrong password to be rejected, got %v", err)
	}
	if _, err := authenticator.Login("doctor@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	authenticator, err := New(Options{
		Email:      "doctor@example.com",
		Password:   "s3cret",
		SessionTTL: time.Hour,
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	session, err := authenticator.Login("doctor@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := authenticator.Validate(session.Token); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if _, err := authenticator.Validate("forged"); !eris.Is(err, ErrUnauthorized) {
		t.Fatalf("expected forged token to be rejected, got %v", err)
	}

	now = now.Add(time.Hour)
	if _, err := authenticator.Validate(session.Token); !eris.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}

	second, err := authenticator.Login("doctor@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	authenticator.Logout(second.Token)
	if _, err := authenticator.Validate(second.Token); !eris.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked session to be rejected, got %v", err)
	}
}
