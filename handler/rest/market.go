package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/views"

	"github.com/go-chi/chi"
)

func marketsHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markets, err := marketSrv.All(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		list, err := views.MarketViews(markets)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, list)
	}
}

func marketHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		market, err := marketSrv.Find(r.Context(), chi.URLParam(r, "asset_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		view, err := views.MarketView(market)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func bindMarketConfig(r *http.Request) (core.MarketConfig, error) {
	var settings core.MarketSettings
	if err := param.Binding(r, &settings); err != nil {
		return core.MarketConfig{}, err
	}

	if assetID := chi.URLParam(r, "asset_id"); assetID != "" {
		settings.AssetID = assetID
	}

	return settings.MarketConfig()
}

func listMarketHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := bindMarketConfig(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketSrv.ListMarket(r.Context(), cfg)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

func updateMarketHandler(marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := bindMarketConfig(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketSrv.UpdateMarketConfig(r.Context(), cfg)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}
