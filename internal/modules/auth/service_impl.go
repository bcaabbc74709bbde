package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	admins map[string]string // username -> bcrypt hash
	jwtKey []byte
}

// NewService creates a new auth service over a static administrator
// directory. An empty jwtSecret disables token login.
func NewService(admins map[string]string, jwtSecret string) Service {
	return &service{admins: admins, jwtKey: []byte(jwtSecret)}
}

func (s *service) Verify(ctx context.Context, creds Credentials) (string, error) {
	if creds.Token != "" {
		return s.verifyToken(creds)
	}

	hash, ok := s.admins[creds.Username]
	if !ok || creds.Username == "" {
		return "", fmt.Errorf("unknown administrator %q: %w", creds.Username, errs.ErrNotAuthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", errs.ErrNotAuthenticated)
	}
	return creds.Username, nil
}

func (s *service) verifyToken(creds Credentials) (string, error) {
	if len(s.jwtKey) == 0 {
		return "", fmt.Errorf("token login is disabled: %w", errs.ErrNotAuthenticated)
	}

	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(creds.Token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %v: %w", err, errs.ErrNotAuthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", errs.ErrNotAuthenticated)
	}
	if creds.Username != "" && creds.Username != claims.Subject {
		return "", fmt.Errorf("token belongs to %q: %w", claims.Subject, errs.ErrNotAuthenticated)
	}
	return claims.Subject, nil
}

func (s *service) IssueToken(username string, ttl time.Duration) (string, error) {
	if len(s.jwtKey) == 0 {
		return "", errors.New("ADMIN_JWT_SECRET is not set")
	}

	expirationTime := time.Now().Add(ttl)
	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// HashPassword returns the bcrypt hash to list in WEGMANS_ADMINS.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errs.Usagef("password is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
