package middleware

import (
	"context"
	"net/http"

	"evcast/backend/libs/auth"
)

type contextKey string

const (
	emailKey    contextKey = "email"
	usernameKey contextKey = "username"
)

// TokenValidator checks a signed token of the given kind.
type TokenValidator interface {
	ValidateToken(token, kind string) (*auth.Claims, error)
}

// AuthMiddleware accepts only access tokens and stores the caller's email in the context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			token, ok := auth.BearerToken(authHeader)
			if !ok {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := validator.ValidateToken(token, auth.KindAccess)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), emailKey, claims.Email)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext retrieves the authenticated email from request context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

// UsernameFromContext retrieves the authenticated username, if the token carried one.
func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}
