package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/views"

	"github.com/go-chi/chi"
)

func accountHandler(accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user_id")

		balances, err := accountSrv.Balances(ctx, userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		view := views.Account{
			UserID:   userID,
			Balances: balances,
		}

		health, err := accountSrv.ComputeHealth(ctx, userID)
		switch {
		case err == nil:
			view.Health = health
		case errors.Is(err, core.ErrPriceUnavailable):
			view.HealthError = err.Error()
		default:
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
