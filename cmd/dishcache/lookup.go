package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pario-ai/dishcache/pkg/models"
	"github.com/pario-ai/dishcache/pkg/reconcile"
)

func newLookupCmd(configPath *string) *cobra.Command {
	var (
		opts      models.PutOptions
		allergens []string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <dish>",
		Short: "Show a dish analysis, fetching and caching it on a miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			client := a.analyzer()
			if client == nil {
				return errors.New("analyzer.base_url is not configured")
			}

			res, err := a.cache.Lookup(ctx, client, args[0], opts)
			if err != nil {
				return err
			}

			origin := "fresh analysis"
			if res.FromCache {
				origin = "cache hit"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", res.Record.DishName, origin)

			if raw {
				return writeJSON(cmd.OutOrStdout(), res.Record.Analysis)
			}
			return writeJSON(cmd.OutOrStdout(), reconcile.Reconcile(res.Record.Analysis, allergens))
		},
	}

	cmd.Flags().StringVar(&opts.PlaceID, "place-id", "", "restaurant place identifier")
	cmd.Flags().StringVar(&opts.RestaurantName, "restaurant", "", "restaurant name")
	cmd.Flags().StringVar(&opts.RestaurantAddress, "address", "", "restaurant address")
	cmd.Flags().StringSliceVarP(&allergens, "allergen", "a", nil, "user allergen (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw analysis payload instead of the view")
	return cmd
}
