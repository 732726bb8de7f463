package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/httputil"
	"matchday/pkg/requestcontext"
)

// HeaderToken carries the shared operator token.
const HeaderToken = "X-Admin-Token"

// RequireAdminToken guards operator routes (result overrides, manual sweeps)
// with a static shared token. An empty expected token disables the routes.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
