package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"vigil/pkg/platform/middleware/request"
)

type ctxKeyAdmin struct{}

// HeaderAdminToken carries the shared administrative token.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken gates admin routes behind the shared token. Uses a
// constant-time comparison to prevent timing attacks.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin{}, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdmin reports whether the request passed the admin token gate.
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(ctxKeyAdmin{}).(bool)
	return ok && isAdmin
}
