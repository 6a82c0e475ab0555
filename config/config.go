// Package config loads the service configuration from a JSON file plus
// environment overrides. Secrets are expected in the environment (a local
// .env file is honored), everything else in the config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LLM holds the text-generation client settings.
type LLM struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Twitter holds the app-level Twitter credentials used for admin posting.
type Twitter struct {
	ConsumerKey    string `json:"consumer_key,omitempty"`
	ConsumerSecret string `json:"consumer_secret,omitempty"`
	AccessToken    string `json:"access_token,omitempty"`
	BearerToken    string `json:"bearer_token,omitempty"`
}

// Config is the full service configuration.
type Config struct {
	ServerAddr    string            `json:"server_addr,omitempty"`
	DBPath        string            `json:"db_path,omitempty"`
	LogLevel      string            `json:"log_level,omitempty"`
	AdminSecret   string            `json:"admin_secret,omitempty"`
	EncryptionKey string            `json:"encryption_key,omitempty"`
	CORSOrigins   []string          `json:"cors_origins,omitempty"`
	LLM           *LLM              `json:"llm,omitempty"`
	Twitter       *Twitter          `json:"twitter,omitempty"`
	// Templates extends or overrides the built-in per-platform prompt
	// templates. Keyed by platform name.
	Templates map[string]string `json:"templates,omitempty"`
}

// Load reads the JSON config file at path and applies environment overrides.
// A missing file is not an error when path is empty; env-only setups are
// supported.
func Load(path string) (Config, error) {
	// Best-effort .env load, same as the python service did with dotenv.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.DBPath, "DB_PATH")
	overrideString(&c.EncryptionKey, "ENCRYPTION_KEY")
	overrideString(&c.AdminSecret, "ADMIN_SECRET")
	overrideString(&c.LogLevel, "LOG_LEVEL")

	if c.LLM == nil {
		c.LLM = &LLM{}
	}
	overrideString(&c.LLM.APIKey, "LLM_API_KEY")
	overrideString(&c.LLM.BaseURL, "LLM_BASE_URL")
	overrideString(&c.LLM.Model, "LLM_MODEL")
	overrideString(&c.LLM.Provider, "LLM_PROVIDER")

	if c.Twitter == nil {
		c.Twitter = &Twitter{}
	}
	overrideString(&c.Twitter.ConsumerKey, "TWITTER_CONSUMER_KEY")
	overrideString(&c.Twitter.ConsumerSecret, "TWITTER_CONSUMER_SECRET")
	overrideString(&c.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	overrideString(&c.Twitter.BearerToken, "TWITTER_BEARER_TOKEN")
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "data/post_muse.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
