package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var (
		configPath string
		envFiles   []string
	)

	root := &cobra.Command{
		Use:           "dishcache",
		Short:         "dishcache: cached dish analyses, recent searches and render-ready views",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFiles, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "dishcache.yaml", "path to config file")
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before the config is read")

	root.AddCommand(
		newLookupCmd(&configPath),
		newCacheCmd(&configPath),
		newRecentCmd(&configPath),
		newViewCmd(),
		newMCPCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv loads dotenv files without overriding variables already set.
// Missing files are only an error when they were named explicitly.
func loadEnv(files []string, explicit bool) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) && !explicit {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}
