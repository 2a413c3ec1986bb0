// Package auth issues and verifies bearer tokens and carries the
// authenticated session through the request context.
package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Session identifies the authenticated user for the duration of one request.
type Session struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the session belongs to an admin user.
func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

type contextKey struct{}

// NewContext returns ctx with the session attached.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("invalid token")

func secret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "saferide-secret-key-2024"
	}
	return []byte(s)
}

// IssueToken signs a token for the given session, valid for 7 days.
func IssueToken(s Session) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
		},
	})
	return token.SignedString(secret())
}

// VerifyToken parses and validates a token, returning the session it carries.
func VerifyToken(tokenString string) (Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: c.Subject, Username: c.Username, Role: c.Role}, nil
}

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
