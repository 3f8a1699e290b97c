package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/dishcache/pkg/models"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the dish analysis cache",
	}

	var placeID string
	getCmd := &cobra.Command{
		Use:   "get <dish>",
		Short: "Print the cached record for a dish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			rec, ok := a.cache.Get(cmd.Context(), args[0], placeID)
			if !ok {
				return fmt.Errorf("%q is not cached", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	getCmd.Flags().StringVar(&placeID, "place-id", "", "restaurant place identifier")

	var putOpts models.PutOptions
	var source string
	putCmd := &cobra.Command{
		Use:   "put <dish> <payload.json|->",
		Short: "Store an analysis payload for a dish",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			switch models.Source(source) {
			case "", models.SourceRestaurant, models.SourceStandalone:
				putOpts.Source = models.Source(source)
			default:
				return fmt.Errorf("unknown source %q", source)
			}

			a, err := openApp(cmd.Context(), *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			a.cache.Put(cmd.Context(), args[0], payload, putOpts)
			if _, ok := a.cache.Get(cmd.Context(), args[0], putOpts.PlaceID); !ok {
				return fmt.Errorf("%q was not stored", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cached %q.\n", args[0])
			return nil
		},
	}
	putCmd.Flags().StringVar(&putOpts.PlaceID, "place-id", "", "restaurant place identifier")
	putCmd.Flags().StringVar(&putOpts.RestaurantName, "restaurant", "", "restaurant name")
	putCmd.Flags().StringVar(&putOpts.RestaurantAddress, "address", "", "restaurant address")
	putCmd.Flags().StringVar(&putOpts.ImageURL, "image-url", "", "dish image URL")
	putCmd.Flags().StringVar(&source, "source", "", "restaurant or standalone (default inferred)")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached dishes by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			recs := a.cache.Search(cmd.Context(), args[0])
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cached dishes found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DISH\tRESTAURANT\tPLACE ID\tSOURCE\tCACHED")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.DishName, dash(r.RestaurantName), dash(r.PlaceID), r.Source, r.CachedAt.Local().Format("2006-01-02T15:04:05"))
			}
			return w.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached dish and the recent searches list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.cache.ClearAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache keys.\n", n)
			return nil
		},
	}

	cmd.AddCommand(getCmd, putCmd, searchCmd, clearCmd)
	return cmd
}
