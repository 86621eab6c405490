package hc

import (
	"net/http"
	"time"

	"lending/core"
	"lending/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle health check. Reports uptime, version and the number of listed
// markets; a market store that can't be read fails the check.
func Handle(version string, markets core.IMarketService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(version, markets))
	return r
}

func handle(version string, markets core.IMarketService) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := markets.All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"uptime":  time.Since(b).Truncate(time.Millisecond).String(),
			"version": version,
			"markets": len(list),
		})
	}
}
