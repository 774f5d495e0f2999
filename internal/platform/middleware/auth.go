package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "carelink/pkg/domain"
	"carelink/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	ProfileID string
	AccountID string
}

// RequireAuth resolves the caller's bearer token to an acting profile ID and
// stores it in context. Requests without a valid token are rejected before
// reaching handlers, so downstream code can assume an identity exists.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				writeAuthError(w, "missing or malformed Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				writeAuthError(w, "invalid or expired token")
				return
			}

			profileID, err := id.ParseProfileID(claims.ProfileID)
			if err != nil {
				logger.WarnContext(r.Context(), "token carries no usable profile id",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := requestcontext.WithProfileID(r.Context(), profileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + desc + `"}`))
}
