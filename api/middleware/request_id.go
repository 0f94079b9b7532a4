package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates the caller's request id, or mints one, onto the
// response header and the request-scoped logger so every log line for a
// request can be correlated.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := sanitizeRequestID(r.Header.Get(requestIDHeader))
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sanitizeRequestID only trusts inbound ids that parse as UUIDs; anything
// else is replaced so callers cannot inject arbitrary text into logs.
func sanitizeRequestID(raw string) string {
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
