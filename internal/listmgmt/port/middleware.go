package port

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
)

type claimsKey struct{}

// tokenValidator is a narrow, consumer-defined interface for access token
// validation. The *auth.Validator satisfies this.
type tokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// RequireAuth wraps a handler with bearer token validation. Validated
// claims are stored on the request context for ClaimsFromContext.
func RequireAuth(v tokenValidator, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, r, logger, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized))
			return
		}

		claims, err := v.ValidateAccessToken(token)
		if err != nil {
			writeError(w, r, logger, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the validated claims stored by RequireAuth,
// or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	val := r.Header.Get("Authorization")
	if val == "" {
		return ""
	}
	const prefix = "Bearer "
	if strings.HasPrefix(val, prefix) {
		return val[len(prefix):]
	}
	return val
}
