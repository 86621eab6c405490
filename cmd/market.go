package cmd

import (
	"encoding/json"
	"fmt"

	"lending/core"
	"lending/pkg/fixed"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var marketCmd = &cobra.Command{
	Use:     "market",
	Aliases: []string{"m"},
	Short:   "market registry",
}

var listMarketsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list markets with interest accrued to now",
	RunE: func(cmd *cobra.Command, args []string) error {
		markets, err := provideServices().markets.All(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(markets)
	},
}

var addMarketCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"am"},
	Short:   "list a new market",
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, _ := cmd.Flags().GetString("asset")
		cfg := core.MarketConfig{AssetID: asset}
		if err := applyMarketFlags(cmd.Flags(), &cfg, false); err != nil {
			return err
		}

		market, err := provideServices().markets.ListMarket(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		cmd.Println("market listed", market.AssetID, market.ID)
		return nil
	},
}

var updateMarketCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"um"},
	Short:   "update market config, flags not set keep their value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := provideServices()

		asset, _ := cmd.Flags().GetString("asset")
		market, err := s.markets.Find(ctx, asset)
		if err != nil {
			return err
		}

		cfg := market.Config()
		if err := applyMarketFlags(cmd.Flags(), &cfg, true); err != nil {
			return err
		}

		if _, err := s.markets.UpdateMarketConfig(ctx, cfg); err != nil {
			return err
		}

		cmd.Println("market updated", asset)
		return nil
	},
}

var syncMarketsCmd = &cobra.Command{
	Use:   "sync",
	Short: "list markets of the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfiguredMarkets(cmd.Context(), provideServices().markets)
	},
}

// applyMarketFlags overwrite cfg fields from flags, only the flags set on the
// command line when onlyChanged
func applyMarketFlags(flags *pflag.FlagSet, cfg *core.MarketConfig, onlyChanged bool) error {
	decimals := map[string]*fixed.Dec{
		"ltv":                 &cfg.MaxLoanToValue,
		"threshold":           &cfg.LiquidationThreshold,
		"bonus":               &cfg.LiquidationBonus,
		"base-rate":           &cfg.BaseRate,
		"slope1":              &cfg.Slope1,
		"slope2":              &cfg.Slope2,
		"optimal-utilization": &cfg.OptimalUtilization,
		"reserve-factor":      &cfg.ReserveFactor,
	}

	for name, dst := range decimals {
		if onlyChanged && !flags.Changed(name) {
			continue
		}

		v, _ := flags.GetString(name)
		d, err := fixed.NewFromString(v)
		if err != nil {
			return fmt.Errorf("--%s %q: %w", name, v, core.ErrInvalidConfig)
		}
		*dst = d
	}

	bools := map[string]*bool{
		"deposit": &cfg.DepositEnabled,
		"borrow":  &cfg.BorrowEnabled,
	}

	for name, dst := range bools {
		if onlyChanged && !flags.Changed(name) {
			continue
		}

		v, _ := flags.GetString(name)
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("--%s %q: %w", name, v, core.ErrInvalidConfig)
		}
		*dst = b
	}

	if !onlyChanged || flags.Changed("symbol") {
		cfg.Symbol, _ = flags.GetString("symbol")
	}

	return nil
}

func marketFlags(flags *pflag.FlagSet) {
	flags.String("asset", "", "asset id")
	flags.String("symbol", "", "display symbol")
	flags.String("deposit", "true", "deposit enabled")
	flags.String("borrow", "true", "borrow enabled")
	flags.String("ltv", "0", "max loan to value")
	flags.String("threshold", "0", "liquidation threshold")
	flags.String("bonus", "0", "liquidation bonus")
	flags.String("base-rate", "0", "base borrow rate per year")
	flags.String("slope1", "0", "rate slope below the optimal utilization")
	flags.String("slope2", "0", "rate slope above the optimal utilization")
	flags.String("optimal-utilization", "0.8", "kink of the rate curve")
	flags.String("reserve-factor", "0", "share of interest kept as reserves")
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(listMarketsCmd, addMarketCmd, updateMarketCmd, syncMarketsCmd)

	marketFlags(addMarketCmd.Flags())
	marketFlags(updateMarketCmd.Flags())
}
