package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"

	"github.com/twitchtv/twirp"
)

// HeaderUserID identifies the caller, authentication happens in front of this service
const HeaderUserID = "X-User-Id"

func adminOnly(cfg *core.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !cfg.IsAdmin(r.Header.Get(HeaderUserID)) {
				render.Error(w, twirp.NewError(twirp.PermissionDenied, "admin only"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
