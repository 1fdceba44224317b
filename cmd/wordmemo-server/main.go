package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordmemo/internal/bootstrap"
	"github.com/at-ishikawa/wordmemo/internal/config"
	"github.com/at-ishikawa/wordmemo/internal/server"
	"github.com/at-ishikawa/wordmemo/internal/studysheet"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "wordmemo-server",
		Short:         "Word memorizer HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), newLogger(debugMode))
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	return rootCmd
}

func newLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func run(ctx context.Context, logger *slog.Logger) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	sess, err := bootstrap.NewSession(ctx, app, cfg, bootstrap.SessionOptions{})
	if err != nil {
		return fmt.Errorf("bootstrap.NewSession() > %w", err)
	}

	handler := server.NewHandler(sess, logger, handlerOptions(cfg)...)
	srv := server.NewServer(cfg.Server.Port, handler.Router(cfg.Server.CORS.AllowedOrigins))
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", "addr", srv.Addr, "provider", cfg.AI.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// handlerOptions enables exports only when an output directory is configured.
func handlerOptions(cfg *config.Config) []server.HandlerOption {
	options := []server.HandlerOption{server.WithRetries(cfg.AI.Retries)}
	if cfg.Outputs.StudySheetDirectory != "" {
		options = append(options, server.WithExporter(
			studysheet.NewExporter(cfg.Outputs.StudySheetDirectory, cfg.Templates.StudySheetTemplate),
		))
	}
	return options
}
