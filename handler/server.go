package handler

import (
	"net/http"

	"lending/core"
	"lending/handler/hc"
	"lending/handler/render"
	"lending/handler/rest"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	cfg      *core.Config
	services rest.Services
	version  string
}

// New new server function
func New(
	cfg *core.Config,
	services rest.Services,
	version string,
) Server {
	return Server{
		cfg:      cfg,
		services: services,
		version:  version,
	}
}

// Handler root handler with middlewares, health check and the rest api
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w, "not found")
	})

	{
		//hc
		mux.Mount("/hc", hc.Handle(s.version, s.services.Markets))
	}

	{
		//restful api
		mux.Mount("/api", s.HandleRestAPI())
	}

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	return rest.Handle(s.cfg, s.services)
}
