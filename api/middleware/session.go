package middleware

import (
	"net/http"

	"github.com/travelbookhq/travelbook-gateway/internal/session"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the caller's session id, minting one for first contact,
// and echoes it back so the client can keep it.
func Session(mgr session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := mgr.EnsureSessionID(r.Header.Get(sessionIDHeader))
			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
