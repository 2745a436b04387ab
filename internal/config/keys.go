package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "TANDEM_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "ollama.base_url", typ: kString, env: "TANDEM_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.chat_model", typ: kString, env: "TANDEM_OLLAMA_CHAT_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.ChatModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.ChatModel },
	},
	{
		key: "ollama.embed_model", typ: kString, env: "TANDEM_OLLAMA_EMBED_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.EmbedModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.EmbedModel },
	},
	{
		key: "storage.data_dir", typ: kString, env: "TANDEM_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "matching.concurrency", typ: kInt, env: "TANDEM_MATCHING_CONCURRENCY",
		apply:   func(cfg *Config, v any) { cfg.Matching.Concurrency = v.(int) },
		extract: func(cfg Config) any { return cfg.Matching.Concurrency },
	},
	{
		key: "matching.default_limit", typ: kInt, env: "TANDEM_MATCHING_DEFAULT_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Matching.DefaultLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Matching.DefaultLimit },
	},
	{
		key: "matching.embed_timeout", typ: kDuration, env: "TANDEM_MATCHING_EMBED_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Matching.EmbedTimeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Matching.EmbedTimeout },
	},
	{
		key: "matching.explain_timeout", typ: kDuration, env: "TANDEM_MATCHING_EXPLAIN_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Matching.ExplainTimeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Matching.ExplainTimeout },
	},
	{
		key: "matching.weight_language", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_LANGUAGE",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Language = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Language },
	},
	{
		key: "matching.weight_level", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Level = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Level },
	},
	{
		key: "matching.weight_semantic", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_SEMANTIC",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Semantic = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Semantic },
	},
	{
		key: "matching.weight_schedule", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_SCHEDULE",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Schedule = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Schedule },
	},
	{
		key: "matching.weight_goals", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_GOALS",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Goals = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Goals },
	},
	{
		key: "matching.weight_personality", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_PERSONALITY",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Personality = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Personality },
	},
	{
		key: "matching.weight_topics", typ: kFloat, env: "TANDEM_MATCHING_WEIGHT_TOPICS",
		apply:   func(cfg *Config, v any) { cfg.Matching.Weights.Topics = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Weights.Topics },
	},
	{
		key: "log.level", typ: kString, env: "TANDEM_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kFloat:
			v, ok, err := b.GetFloat(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				d, err := time.ParseDuration(v)
				if err != nil {
					return fmt.Errorf("reading %s: %w", s.key, err)
				}
				s.apply(cfg, d)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
