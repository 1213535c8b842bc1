package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues and validates admin API tokens.
type Manager interface {
	Generate(subject string) (string, error)
	Parse(tokenString string) (string, error)
}

// Claims represents admin token claims.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT implements Manager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) Manager {
	return &JWT{secretKey: secretKey}
}

const (
	adminTTL  = 12 * time.Hour
	typeAdmin = "admin"
)

// Generate creates an admin token for the given subject.
func (j *JWT) Generate(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTTL)),
		},
		TokenType: typeAdmin,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	return tokenString, nil
}

// Parse validates a token and extracts its subject.
func (j *JWT) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse admin token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("admin token is invalid")
	}
	if claims.TokenType != typeAdmin {
		return "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims.Subject, nil
}
