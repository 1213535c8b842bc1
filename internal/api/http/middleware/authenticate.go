package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/keyfleet/sftp-provisioner/internal/logger"
	"github.com/keyfleet/sftp-provisioner/internal/token"
)

// Authenticate rejects requests without a valid admin bearer token.
type Authenticate struct {
	tokens token.Manager
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware.
func NewAuthenticate(tokens token.Manager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokens: tokens,
		logger: logger,
	}
}

// Middleware wraps next with bearer-token validation.
func (a *Authenticate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			a.unauthorized(w, "missing bearer token")
			return
		}

		subject, err := a.tokens.Parse(tokenString)
		if err != nil {
			a.logger.Warn("token rejected", "error", err)
			a.unauthorized(w, "invalid token")
			return
		}

		r.Header.Set("X-Admin-Subject", subject)
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticate) unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
