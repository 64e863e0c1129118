package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
)

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: 42, Email: "asha@example.com"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", time.Hour)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != 42 {
			t.Errorf("UserID = %d, want 42", claims.UserID)
		}
		if claims.Email != "asha@example.com" {
			t.Errorf("Email = %s", claims.Email)
		}
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", -time.Minute)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects a foreign signature", func(t *testing.T) {
		issuer := NewJWTManager("one-secret", time.Hour)
		verifier := NewJWTManager("another-secret", time.Hour)

		token, err := issuer.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", time.Hour)
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordValidation(t *testing.T) {
	a := NewPasswordAuthenticator(nil)

	if err := a.ValidateCredential("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
	if err := a.ValidateCredential("long enough password"); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
