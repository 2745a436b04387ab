package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tandemly/tandem/internal/api"
	"github.com/tandemly/tandem/internal/config"
	"github.com/tandemly/tandem/internal/engine"
	"github.com/tandemly/tandem/internal/explain"
	"github.com/tandemly/tandem/internal/matching"
	"github.com/tandemly/tandem/internal/semantic"
	"github.com/tandemly/tandem/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tandem matching server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// buildRanker wires the scoring pipeline from config. Shared by serve
// and the direct CLI commands.
func buildRanker(cfg config.Config, eng engine.Engine, store *storage.Store) (*matching.Ranker, error) {
	exp := explain.New(eng, cfg.Ollama.ChatModel, cfg.Matching.ExplainTimeout)
	return matching.NewRanker(cfg.Matching.Weights, newSemanticScorer(cfg, eng, store), exp, cfg.Matching.Concurrency)
}

func newSemanticScorer(cfg config.Config, eng engine.Engine, store *storage.Store) *semantic.Scorer {
	return semantic.NewScorer(eng, cfg.Ollama.EmbedModel, store, cfg.Matching.EmbedTimeout)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "tandem version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewOllama(cfg.Ollama.BaseURL)
	if err := engine.EnsureReady(ctx, eng, cfg.Ollama.ChatModel, cfg.Ollama.EmbedModel, os.Stderr); err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	ranker, err := buildRanker(cfg, eng, store)
	if err != nil {
		return err
	}

	handler := api.NewHandler(store, ranker, cfg.Matching.DefaultLimit)
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("tandem listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
