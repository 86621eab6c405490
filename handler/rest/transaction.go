package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

// response transactions, newest last
func transactionsHandler(session core.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			UserID string `json:"user_id"`
			From   int64  `json:"from"`
			Limit  int    `json:"limit"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		var transactions []*core.Transaction
		err := session.View(ctx, func(tx *core.Tx) (err error) {
			if params.UserID != "" {
				transactions, err = tx.Transactions.ListByUser(ctx, params.UserID, params.From, limit)
			} else {
				transactions, err = tx.Transactions.List(ctx, params.From, limit)
			}
			return
		})

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}

func pricesHandler(prices core.IPriceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := prices.All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, all)
	}
}
