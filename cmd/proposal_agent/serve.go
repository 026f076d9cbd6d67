package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-assistant/internal/server"
)

var (
	serveConfigPath string
	servePort       int
	serveAPIKey     string
	serveModel      string
	serveSessionTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for drafting, checking, and improving proposals.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Override the Gemini model for all tiers")
	serveCmd.Flags().DurationVar(&serveSessionTTL, "session-ttl", 0, "Idle session lifetime (default 2h)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadOptionalConfig(serveConfigPath)
	if err != nil {
		return err
	}

	port := servePort
	if cfg.Port != 0 && port == 8080 {
		port = cfg.Port
	}

	ttl := serveSessionTTL
	if ttl == 0 && cfg.SessionTTL != "" {
		ttl, err = time.ParseDuration(cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid session_ttl in config: %w", err)
		}
	}

	client, err := newLLMClient(context.Background(), cfg, serveAPIKey, serveModel)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:       port,
		LLMClient:  client,
		SessionTTL: ttl,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
