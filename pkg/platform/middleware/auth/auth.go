package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"vigil/pkg/platform/middleware/request"
)

// TokenValidator validates a bearer token and returns the oracle identity it
// carries.
type TokenValidator interface {
	Validate(tokenString string) (oracleID string, err error)
}

type ctxKeyOracleID struct{}

// GetOracleID retrieves the authenticated oracle identity from the context.
func GetOracleID(ctx context.Context) string {
	oracleID, ok := ctx.Value(ctxKeyOracleID{}).(string)
	if !ok {
		return ""
	}
	return oracleID
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireOracle authenticates the caller via bearer token and stores the
// oracle identity in context. Capability checks (active, registered) stay in
// the service layer.
func RequireOracle(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
				return
			}

			oracleID, err := validator.Validate(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "token validation failed",
					"request_id", request.GetRequestID(ctx),
					"error", err.Error(),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyOracleID{}, oracleID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
