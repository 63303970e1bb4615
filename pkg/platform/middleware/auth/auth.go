// Package auth authenticates bearer tokens and records the caller as the
// request actor.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/httputil"
	"veriflow/pkg/requestcontext"
)

// JWTValidator checks a raw bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the subset of token claims the middleware consumes.
type JWTClaims struct {
	UserID string
	Role   string
	JTI    string
}

// RequireAuth validates the bearer token and stores the subject as the
// request actor. Authorization policy is left to the services.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reject := func(reason, description string, err error) {
				attrs := []any{"reason", reason, "request_id", requestcontext.RequestID(ctx)}
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.WarnContext(ctx, "request rejected by auth", attrs...)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: description,
				})
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				reject("missing_token", "Missing or invalid Authorization header", nil)
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				reject("invalid_token", "Invalid or expired token", err)
				return
			}
			actor, err := id.ParseUserID(claims.UserID)
			if err != nil {
				reject("invalid_subject", "Invalid token subject", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(ctx, actor)))
		})
	}
}
