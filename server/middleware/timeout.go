package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/richardsabow/airports-backend/server/response"
)

// Timeout attaches a deadline to the request context. The handler runs on
// the calling goroutine; if the deadline fired and nothing was written, a
// 504 is sent once it returns.
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			if ctx.Err() != nil && !rec.wroteHeader {
				response.Error(rec, r, http.StatusGatewayTimeout, "timeout", "request timed out")
			}
		})
	}
}
