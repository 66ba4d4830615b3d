package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/supplier-finder/internal/auth"
)

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}

	tests := map[string]struct {
		operatorEmail string
		operatorHash  string
		email         string
		password      string
		expectError   error
	}{
		"empty credentials": {
			operatorEmail: "ops@example.com",
			operatorHash:  string(hashed),
			expectError:   errors.New("email and password must not be empty"),
		},
		"operator not configured": {
			email:       "ops@example.com",
			password:    "super-secret",
			expectError: errors.New("operator credential is not configured"),
		},
		"unknown email": {
			operatorEmail: "ops@example.com",
			operatorHash:  string(hashed),
			email:         "someone@example.com",
			password:      "super-secret",
			expectError:   ErrInvalidCredentials,
		},
		"password mismatch": {
			operatorEmail: "ops@example.com",
			operatorHash:  string(hashed),
			email:         "ops@example.com",
			password:      "wrong",
			expectError:   ErrInvalidCredentials,
		},
		"success": {
			operatorEmail: "ops@example.com",
			operatorHash:  string(hashed),
			email:         "Ops@Example.com",
			password:      "super-secret",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			jwtManager := auth.NewJWTManager("test-secret", 0)
			service := NewAuthService(tt.operatorEmail, tt.operatorHash, jwtManager)

			token, err := service.Login(context.Background(), tt.email, tt.password)
			if tt.expectError != nil {
				if err == nil || err.Error() != tt.expectError.Error() {
					t.Fatalf("expected error %q, got %v", tt.expectError, err)
				}
				if token != "" {
					t.Fatalf("expected empty token on error, got %q", token)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Fatalf("expected non-empty token")
			}

			claims, err := jwtManager.ParseToken(token)
			if err != nil {
				t.Fatalf("parse issued token: %v", err)
			}
			if claims.Email != "ops@example.com" {
				t.Fatalf("unexpected claims email: %s", claims.Email)
			}
		})
	}
}
