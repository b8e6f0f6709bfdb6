package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Cache CacheConfig `mapstructure:"cache"`
	LLM   LLMConfig   `mapstructure:"llm"`
	Quiz  QuizConfig  `mapstructure:"quiz"`
	Log   LogConfig   `mapstructure:"log"`
	UI    UIConfig    `mapstructure:"ui"`
}

// CacheConfig holds the sqlite artifact cache settings.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LLMConfig holds generation provider settings.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	ImageModel  string        `mapstructure:"image_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Latency     time.Duration `mapstructure:"latency"`
	FailureRate float64       `mapstructure:"failure_rate"`
}

// QuizConfig selects what the quiz generator is asked for.
type QuizConfig struct {
	Topic         string `mapstructure:"topic"`
	QuestionCount int    `mapstructure:"question_count"`
	BankPath      string `mapstructure:"bank_path"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	WrapWidth    int    `mapstructure:"wrap_width"`
	GlamourStyle string `mapstructure:"glamour_style"`
}

// Load reads configuration from file and env. Env var overrides use prefix NOTEFEED_.
// path wins over NOTEFEED_CONFIG, which wins over ~/.config/notefeed/config.toml.
func Load(path string) (Config, error) {
	return load(path, false)
}

// LoadOrDefaults is Load, except that a config file that does not exist yet
// yields the defaults (plus env overrides) instead of an error.
func LoadOrDefaults(path string) (Config, error) {
	return load(path, true)
}

func load(path string, allowMissing bool) (Config, error) {
	v := viper.New()
	home := os.Getenv("HOME")

	// default values
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", filepath.Join(home, ".cache", "notefeed", "artifacts.db"))
	v.SetDefault("llm.provider", "offline")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.image_model", "dall-e-3")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.latency", "2s")
	v.SetDefault("llm.failure_rate", 0.0)
	v.SetDefault("quiz.topic", "Python")
	v.SetDefault("quiz.question_count", 3)
	v.SetDefault("quiz.bank_path", "")
	v.SetDefault("log.mode", "prod")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "notefeed", "notefeed.log"))
	v.SetDefault("ui.wrap_width", 80)
	v.SetDefault("ui.glamour_style", "dark")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("NOTEFEED_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "notefeed"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NOTEFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		// an explicit path that does not exist is an error; a missing default file is not
		if !missing || (path != "" && !allowMissing) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LLM.Provider)) {
	case "offline", "openai":
	default:
		return fmt.Errorf("config: unknown llm.provider %q (want offline or openai)", c.LLM.Provider)
	}
	if c.LLM.FailureRate < 0 || c.LLM.FailureRate > 1 {
		return fmt.Errorf("config: llm.failure_rate %v out of [0,1]", c.LLM.FailureRate)
	}
	if c.LLM.Latency < 0 {
		return fmt.Errorf("config: llm.latency must not be negative")
	}
	if c.Quiz.QuestionCount < 1 {
		return fmt.Errorf("config: quiz.question_count must be at least 1")
	}
	return nil
}

// Save writes the provided config to path (or the default location), creating
// the config directory if needed. The API key is written in plain text; prefer
// the env var or the secret store.
func Save(cfg Config, path string) error {
	if path == "" {
		path = os.Getenv("NOTEFEED_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "notefeed", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.path", cfg.Cache.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.image_model", cfg.LLM.ImageModel)
	v.Set("llm.timeout", cfg.LLM.Timeout.String())
	v.Set("llm.latency", cfg.LLM.Latency.String())
	v.Set("llm.failure_rate", cfg.LLM.FailureRate)
	v.Set("quiz.topic", cfg.Quiz.Topic)
	v.Set("quiz.question_count", cfg.Quiz.QuestionCount)
	v.Set("quiz.bank_path", cfg.Quiz.BankPath)
	v.Set("log.mode", cfg.Log.Mode)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.wrap_width", cfg.UI.WrapWidth)
	v.Set("ui.glamour_style", cfg.UI.GlamourStyle)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
