package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/supplier-finder/internal/auth"
)

// ErrInvalidCredentials is returned when login fails, regardless of whether
// the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the operator credential and issues tokens. The
// deployment has a single operator account configured through the
// environment; there is no user store.
type AuthService struct {
	operatorEmail string
	passwordHash  string
	jwt           *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operatorEmail, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		operatorEmail: strings.ToLower(strings.TrimSpace(operatorEmail)),
		passwordHash:  passwordHash,
		jwt:           jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.operatorEmail == "" || s.passwordHash == "" {
		return "", errors.New("operator credential is not configured")
	}

	if strings.ToLower(strings.TrimSpace(email)) != s.operatorEmail {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken("operator", s.operatorEmail)
	if err != nil {
		return "", err
	}

	return token, nil
}
