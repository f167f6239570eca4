package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dimosr/lenses-mcp/client"
	"github.com/dimosr/lenses-mcp/config"
	"github.com/dimosr/lenses-mcp/dispatch"
	"github.com/dimosr/lenses-mcp/server"
	"github.com/dimosr/lenses-mcp/tools"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		transport string
		addr      string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:          "lenses-mcp",
		Short:        "MCP server exposing the Lenses HQ API as agent tools",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Transport = transport
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			// stdout carries MCP framing on the stdio transport; logs go
			// to stderr unconditionally.
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			return run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", `MCP transport: "stdio" or "http" (overrides MCP_TRANSPORT)`)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the HTTP transport (overrides MCP_HTTP_ADDR)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.WithRetry(client.New(cfg.BaseURL, cfg.APIKey, logger), logger)
	sqlClient := client.NewSQL(cfg.WebSocketURL, cfg.APIKey, logger)

	registry := tools.NewRegistry()
	tools.RegisterEnvironments(registry, api)
	tools.RegisterTopics(registry, api)
	tools.RegisterConsumerGroups(registry, api)
	tools.RegisterConnectors(registry, api)
	tools.RegisterProcessors(registry, api)
	tools.RegisterSQL(registry, sqlClient)

	dispatcher := dispatch.New(registry, logger, dispatch.WithRedact(cfg.APIKey))

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("tools", registry.Len()).
		Msg("starting Lenses MCP server")

	return server.New(registry, dispatcher, version, logger).Serve(ctx, cfg)
}
