package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tandemly/tandem/internal/config"
	"github.com/tandemly/tandem/internal/engine"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/storage"
)

// --- rank ---

var rankCmd = &cobra.Command{
	Use:   "rank <user-id>",
	Short: "Rank stored candidates for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		eng := engine.NewOllama(cfg.Ollama.BaseURL)
		if !eng.IsRunning(ctx) {
			printWarning("inference engine unreachable; semantic scores and explanations will degrade")
		}

		ranker, err := buildRanker(cfg, eng, store)
		if err != nil {
			return err
		}

		user, err := store.GetProfile(ctx, args[0])
		if err != nil {
			return err
		}
		candidates, err := store.ListCandidates(ctx, args[0])
		if err != nil {
			return err
		}
		if limit <= 0 {
			limit = cfg.Matching.DefaultLimit
		}

		matches, err := ranker.Rank(ctx, user, candidates, limit)
		if err != nil {
			return err
		}
		printMatches(args[0], matches)
		return nil
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tandem system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		eng := engine.NewOllama(cfg.Ollama.BaseURL)
		if eng.IsRunning(ctx) {
			printStatus("engine", "running at %s", cfg.Ollama.BaseURL)
			for _, model := range []string{cfg.Ollama.ChatModel, cfg.Ollama.EmbedModel} {
				if eng.HasModel(ctx, model) {
					printStatus("model", "%s available", model)
				} else {
					printWarning("model %s missing (run `tandem serve` to pull it)", model)
				}
			}
		} else {
			printWarning("engine unreachable at %s", cfg.Ollama.BaseURL)
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		count, err := store.CountProfiles(ctx)
		if err != nil {
			return fmt.Errorf("counting profiles: %w", err)
		}
		printStatus("profiles", "%d stored in %s", count, cfg.Storage.DataDir)
		return nil
	},
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo profiles for local evaluation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		seeded := make([]profile.Profile, 0, len(demoProfiles))
		for _, raw := range demoProfiles {
			if err := store.UpsertProfile(ctx, raw); err != nil {
				return fmt.Errorf("seeding profile %s: %w", raw.ID, err)
			}
			p, err := profile.Project(raw)
			if err != nil {
				return fmt.Errorf("projecting seeded profile %s: %w", raw.ID, err)
			}
			seeded = append(seeded, p)
			printStep("seeded %s (%s)", raw.ID, raw.NativeLanguage)
		}

		// Precompute summary embeddings so the first rank call is warm.
		eng := engine.NewOllama(cfg.Ollama.BaseURL)
		if eng.IsRunning(ctx) {
			sem := newSemanticScorer(cfg, eng, store)
			sem.Warm(ctx, seeded)
			printSuccess("seeded %d profiles with warm embeddings", len(seeded))
		} else {
			printWarning("engine unreachable; seeded %d profiles without embeddings", len(seeded))
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit tandem configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, ki := range config.ShowAll(cfg) {
			fmt.Printf("%-28s %-36s %s\n", ki.Key, ki.EnvVar, ki.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return err
		}
		// Reload so a broken value (bad weights) is caught immediately.
		if _, err := config.Load(); err != nil {
			printWarning("value stored but config no longer loads: %v", err)
			return err
		}
		printSuccess("%s = %s", args[0], args[1])
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("%s reset to default", args[0])
		return nil
	},
}

func init() {
	rankCmd.Flags().Int("limit", 0, "maximum number of matches to return")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)

	// Quiet slog until a command configures it.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}
