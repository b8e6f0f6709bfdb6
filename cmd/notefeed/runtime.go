package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jask/notefeed/internal/config"
	"github.com/jask/notefeed/internal/database"
	"github.com/jask/notefeed/internal/database/repository"
	"github.com/jask/notefeed/internal/llm"
	"github.com/jask/notefeed/internal/logger"
	"github.com/jask/notefeed/internal/secrets"
)

// deps holds the long-lived collaborators shared by the commands.
type deps struct {
	Log      *logger.Logger
	DB       *sql.DB
	Provider llm.Provider
}

func openDeps(cfg config.Config) (*deps, error) {
	lg, err := logger.New(cfg.Log.Mode, cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	rt := &deps{Log: lg}

	provider, err := buildProvider(cfg, lg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Provider = provider

	if cfg.Cache.Enabled {
		db, err := database.OpenMigrated(cfg.Cache.Path)
		if err != nil {
			// The cache is optional; run without it.
			lg.Warn("artifact cache disabled", "path", cfg.Cache.Path, "err", err)
		} else {
			rt.DB = db
			rt.Provider = llm.NewCachedProvider(provider, repository.NewArtifactRepo(db), lg.With("component", "cache"))
		}
	}
	return rt, nil
}

func (rt *deps) Close() {
	if rt.DB != nil {
		_ = rt.DB.Close()
	}
	rt.Log.Sync()
}

func buildProvider(cfg config.Config, lg *logger.Logger) (llm.Provider, error) {
	opts := []llm.OfflineOption{
		llm.WithLatency(cfg.LLM.Latency),
		llm.WithFailureRate(cfg.LLM.FailureRate),
	}
	if cfg.Quiz.BankPath != "" {
		bank, err := llm.LoadBank(cfg.Quiz.BankPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, llm.WithBank(bank))
	}
	offline := llm.NewOfflineProvider(opts...)

	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "openai":
		key := resolveAPIKey(cfg, lg)
		if key == "" {
			lg.Warn("openai selected without an api key; using offline provider")
			return offline, nil
		}
		p := llm.NewOpenAIProvider(key, cfg.LLM.Model, cfg.LLM.ImageModel, offline)
		p.SetTimeout(cfg.LLM.Timeout)
		return p, nil
	default:
		return offline, nil
	}
}

// resolveAPIKey checks the env var, then the secret store, then the config file.
func resolveAPIKey(cfg config.Config, lg *logger.Logger) string {
	env := strings.TrimSpace(cfg.LLM.APIKeyEnv)
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	if store, err := secrets.DefaultStore(); err == nil {
		k, err := store.Get(cfg.LLM.Provider)
		if err == nil {
			return k
		}
		lg.Debug("no stored api key", "provider", cfg.LLM.Provider, "err", err)
	}
	return strings.TrimSpace(cfg.LLM.APIKey)
}
