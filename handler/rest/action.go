package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

type actionParams struct {
	UserID  string    `json:"user_id"`
	AssetID string    `json:"asset_id"`
	Amount  fixed.Dec `json:"amount"`
	// collateral flag
	Enabled bool `json:"enabled"`
	// liquidation
	Borrower          string `json:"borrower"`
	CollateralAssetID string `json:"collateral_asset_id"`
	// optional, replaying a recorded trace returns the recorded transaction
	TraceID string `json:"trace_id"`
}

func actionHandler(ledgerSrv core.ILedgerService, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actionType, ok := core.ParseActionType(chi.URLParam(r, "action"))
		if !ok {
			render.NotFound(w, "action not found")
			return
		}

		var params actionParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		ctx := r.Context()
		if params.TraceID != "" {
			if !compound.ValidIdentifier(params.TraceID) {
				render.Error(w, twirp.InvalidArgumentError("trace_id", "invalid"))
				return
			}

			ctx = core.WithTraceID(ctx, params.TraceID)
		}

		var (
			tx  *core.Transaction
			err error
		)

		switch actionType {
		case core.ActionTypeDeposit:
			tx, err = ledgerSrv.Deposit(ctx, params.UserID, params.AssetID, params.Amount)
		case core.ActionTypeWithdraw:
			tx, err = ledgerSrv.Withdraw(ctx, params.UserID, params.AssetID, params.Amount)
		case core.ActionTypeBorrow:
			tx, err = ledgerSrv.Borrow(ctx, params.UserID, params.AssetID, params.Amount)
		case core.ActionTypeRepay:
			tx, err = ledgerSrv.Repay(ctx, params.UserID, params.AssetID, params.Amount)
		case core.ActionTypeCollateral:
			tx, err = ledgerSrv.SetCollateral(ctx, params.UserID, params.AssetID, params.Enabled)
		case core.ActionTypeLiquidate:
			tx, err = accountSrv.Liquidate(ctx, &core.LiquidateRequest{
				Liquidator:      params.UserID,
				UserID:          params.Borrower,
				DebtAsset:       params.AssetID,
				CollateralAsset: params.CollateralAssetID,
				Amount:          params.Amount,
			})
		default:
			// market administration has its own routes
			render.NotFound(w, "action not found")
			return
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}
