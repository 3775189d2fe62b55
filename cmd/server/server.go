package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/janhq/hf-mcp/internal/config"
	"github.com/janhq/hf-mcp/internal/infrastructure/auth"
	"github.com/janhq/hf-mcp/internal/infrastructure/logger"
	"github.com/janhq/hf-mcp/internal/infrastructure/observability"
	"github.com/janhq/hf-mcp/internal/interfaces/httpserver"
	mcproute "github.com/janhq/hf-mcp/internal/interfaces/httpserver/routes/mcp"
	"github.com/janhq/hf-mcp/internal/utils/platformerrors"
)

type Application struct {
	cfg           *config.Config
	httpServer    *httpserver.HTTPServer
	mcpRoute      *mcproute.MCPRoute
	observability *observability.Provider
	authValidator *auth.Validator
}

// @title HuggingFace MCP Service
// @version 1.0
// @description Model Context Protocol (MCP) server exposing HuggingFace Hub search and hosted inference.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/hf-mcp
// @BasePath /
func (app *Application) Start(ctx context.Context) error {
	defer app.authValidator.Close()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
		defer cancel()
		if err := app.observability.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	if app.cfg.IsStdio() {
		log.Info().Msg("Serving MCP over stdio")
		err := app.mcpRoute.Server().Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}

	return app.httpServer.Run(ctx)
}

var rootCmd = &cobra.Command{
	Use:   "hf-mcp",
	Short: "HuggingFace MCP server",
	Long: `hf-mcp exposes HuggingFace Hub search and hosted inference as Model Context
Protocol tools, resources and prompts.

Examples:
  # Launched by an MCP client over stdin/stdout
  hf-mcp --token-file ~/.config/hf/token

  # Streamable HTTP endpoint on :8093/v1/mcp
  hf-mcp --transport http --port 8093`,
	Version:       mcproute.ServerVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("transport", "", "MCP transport: stdio or http (overrides MCP_TRANSPORT)")
	rootCmd.Flags().String("token-file", "", "Path to the HuggingFace API token file (overrides HF_TOKEN_FILE)")
	rootCmd.Flags().String("port", "", "HTTP listen port (overrides HF_MCP_HTTP_PORT)")
}

func run(cmd *cobra.Command, _ []string) error {
	loadEnvFiles()

	cfg, err := config.LoadConfig()
	if err != nil {
		return platformerrors.NewError(cmd.Context(), platformerrors.LayerConfig, platformerrors.ErrorTypeValidation, "load config", err, "7b2e4f90-1c3a-4d5e-9f8b-a6c0d2e31f47")
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return platformerrors.NewError(cmd.Context(), platformerrors.LayerConfig, platformerrors.ErrorTypeValidation, "invalid command-line flags", err, "d41c8a3e-6f27-4b90-8e15-3a9b7c2d60f8")
	}

	// stdout carries the protocol in stdio mode
	logOut := io.Writer(os.Stdout)
	if cfg.IsStdio() {
		logOut = os.Stderr
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, logOut)
	log.Info().
		Str("service", cfg.ServiceName).
		Str("transport", cfg.Transport).
		Str("log_level", cfg.LogLevel).
		Msg("Starting HuggingFace MCP service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := CreateApplication(ctx, cfg)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "create application")
	}

	if err := application.Start(ctx); err != nil {
		return err
	}
	log.Info().Msg("application exited cleanly")
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("transport"); v != "" {
		cfg.Transport = v
	}
	if v, _ := cmd.Flags().GetString("token-file"); v != "" {
		cfg.TokenFile = v
	}
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.HTTPPort = v
	}
	return cfg.Validate()
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

func main() {
	// Logs go to stderr until the transport is known
	logger.Init("info", "json", os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		var platformErr *platformerrors.PlatformError
		if errors.As(err, &platformErr) {
			platformerrors.LogError(log.Logger, platformErr)
		} else {
			log.Error().Err(err).Msg("hf-mcp stopped with error")
		}
		os.Exit(1)
	}
}
