package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/dishcache/pkg/reconcile"
)

func newViewCmd() *cobra.Command {
	var allergens []string

	cmd := &cobra.Command{
		Use:   "view <payload.json|->",
		Short: "Reconcile a raw analysis payload into its view model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reconcile.Reconcile(payload, allergens))
		},
	}

	cmd.Flags().StringSliceVarP(&allergens, "allergen", "a", nil, "user allergen (repeatable)")
	return cmd
}
