// Package middleware holds HTTP middleware that needs access to the relay's
// domain types.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"relay/internal/handoff/models"
)

// SessionVerifier validates a first-party session token and returns the user
// it names.
type SessionVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*models.User, error)
}

type contextKeySessionUser struct{}

// ContextKeySessionUser is exported for tests that build contexts directly.
var ContextKeySessionUser = contextKeySessionUser{}

// SessionUser retrieves the authenticated user from the context. Nil outside
// a RequireSession-protected route.
func SessionUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(ContextKeySessionUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireSession guards routes behind the first-party session cookie. The
// verified user lands in the request context for handlers to read.
func RequireSession(cookieName string, verifier SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w)
				return
			}

			user, err := verifier.VerifySessionToken(r.Context(), cookie.Value)
			if err != nil {
				logger.Info("session rejected", "error", err)
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
