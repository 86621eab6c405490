package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

// Services backing the rest api
type Services struct {
	Session  core.Session
	Prices   core.IPriceStore
	Markets  core.IMarketService
	Accounts core.IAccountService
	Ledger   core.ILedgerService
}

// Handle handle rest api request
func Handle(cfg *core.Config, s Services) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w, "not found")
	})

	router.Route("/markets", func(r chi.Router) {
		r.Get("/", marketsHandler(s.Markets))
		r.Get("/{asset_id}", marketHandler(s.Markets))

		r.With(adminOnly(cfg)).Post("/", listMarketHandler(s.Markets))
		r.With(adminOnly(cfg)).Put("/{asset_id}", updateMarketHandler(s.Markets))
	})

	router.Get("/accounts/{user_id}", accountHandler(s.Accounts))
	router.Get("/transactions", transactionsHandler(s.Session))
	router.Get("/prices", pricesHandler(s.Prices))
	router.Post("/actions/{action}", actionHandler(s.Ledger, s.Accounts))

	return router
}
