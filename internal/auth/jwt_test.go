package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTGenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := service.Generate(userID, "voter@example.com", "viewer")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := service.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "voter@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "voter@example.com")
	}
	if claims.Role != "viewer" {
		t.Errorf("Role = %q, want %q", claims.Role, "viewer")
	}
}

func TestJWTValidateRejects(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	token, err := service.Generate(uuid.New(), "voter@example.com", "viewer")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.token"},
		{"tampered token", token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTValidateRejectsWrongSecret(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("another-secret", time.Hour)

	token, err := service.Generate(uuid.New(), "voter@example.com", "viewer")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTValidateRejectsExpired(t *testing.T) {
	service := NewJWTService("test-secret", -time.Hour)

	token, err := service.Generate(uuid.New(), "voter@example.com", "viewer")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := service.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() of expired token error = %v, want ErrInvalidToken", err)
	}
}
