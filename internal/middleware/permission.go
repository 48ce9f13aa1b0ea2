package middleware

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/httputil"
	"github.com/mmynk/wealthwise/internal/observability"
	"github.com/mmynk/wealthwise/internal/tenant"
)

// RequirePermission returns a middleware that checks, before the handler
// runs, the permission perms assigns to the request method. Methods missing
// from perms are answered with 405.
func RequirePermission(perms authz.MethodPermissions, metrics *observability.Metrics) func(http.Handler) http.Handler {
	allow := allowHeader(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			perm, ok := perms.For(r.Method)
			if !ok {
				w.Header().Set("Allow", allow)
				httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
					Error:   httputil.TitleMethod,
					Message: "Method " + r.Method + " is not allowed",
				})
				return
			}

			err := authz.Authorize(r.Context(), perm)
			metrics.RecordAuthz(string(perm), err == nil)
			if err != nil {
				slog.Warn("Permission denied",
					"method", r.Method,
					"path", r.URL.Path,
					"permission", perm,
					"user_id", tenant.UserID(r.Context()),
					"reason", err,
				)
				httputil.WriteAuthzError(w, err)
				return
			}
			slog.Debug("Permission granted", "method", r.Method, "path", r.URL.Path, "permission", perm)

			next.ServeHTTP(w, r)
		})
	}
}

func allowHeader(perms authz.MethodPermissions) string {
	methods := make([]string, 0, len(perms)+1)
	for m := range perms {
		methods = append(methods, m)
	}
	if _, ok := perms[http.MethodGet]; ok {
		methods = append(methods, http.MethodHead)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
