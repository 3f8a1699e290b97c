package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRecentCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recent dish searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.cache.RecentSearches(cmd.Context())
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent searches.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DISH\tRESTAURANT\tPLACE ID\tCACHED\tSEARCHED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
					e.DishName, dash(e.RestaurantName), dash(e.PlaceID), e.HasCache, e.SearchedAt.Local().Format("2006-01-02T15:04:05"))
			}
			return w.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
