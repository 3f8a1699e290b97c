package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pario-ai/dishcache/pkg/cache"
	"github.com/pario-ai/dishcache/pkg/mcp"
)

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dish cache as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, *configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			var fetcher cache.Fetcher
			if client := a.analyzer(); client != nil {
				fetcher = client
			}

			a.log.Info("starting mcp server",
				zap.String("backend", a.cfg.Store.Backend),
				zap.Bool("analyzer", fetcher != nil),
			)
			return mcp.New(a.cache, fetcher, a.log, version).Run(ctx, os.Stdin, os.Stdout)
		},
	}
}
