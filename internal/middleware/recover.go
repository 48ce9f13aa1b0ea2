package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mmynk/wealthwise/internal/httputil"
)

// Recover converts a panic in the handler chain into a 500 response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("PANIC recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			httputil.WriteInternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
