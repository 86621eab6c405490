package cmd

import (
	"lending/core"
	"lending/pkg/fixed"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "price store",
}

var setPriceCmd = &cobra.Command{
	Use:   "set <asset_id> <price>",
	Short: "record a price by hand",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := fixed.NewFromString(args[1])
		if err != nil {
			return err
		}

		price := &core.Price{
			AssetID:   args[0],
			Price:     p,
			Provider:  "manual",
			UpdatedAt: provideClock().Now(),
		}

		if err := provideStores().prices.Save(cmd.Context(), price); err != nil {
			return err
		}

		cmd.Println("price set", price.AssetID, price.Price)
		return nil
	},
}

var listPricesCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list recorded prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		prices, err := provideStores().prices.All(cmd.Context())
		if err != nil {
			return err
		}

		for _, p := range prices {
			cmd.Println(p.AssetID, p.Price, p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.AddCommand(setPriceCmd, listPricesCmd)
}
