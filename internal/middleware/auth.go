package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "gradepulse/internal/errors"
	"gradepulse/internal/services"
)

// claimsKey is the context key for authenticated session claims.
type claimsKey struct{}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// Authenticator requires a valid Bearer token and stores its claims in the
// request context.
func Authenticator(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				render.Render(w, r, apierrors.ErrUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				render.Render(w, r, apierrors.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims stored by Authenticator.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*services.Claims)
	return claims, ok
}
