package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultAPIBaseURL = "https://localhost:5000"

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`
	FrontendURL string `mapstructure:"frontend_url"`
	WriteLimit  int    `mapstructure:"write_limit"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"api-base-url": "api.base_url",
	"api-timeout":  "api.timeout",
	"log-level":    "log.level",
	"log-pretty":   "log.pretty",
	"port":         "server.port",
}

// Load reads .env (if present), then an optional chatfront.yaml, the
// environment and finally any flags in fs that the user set.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	v.SetConfigName("chatfront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBaseURL
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.database_url", "")
	v.SetDefault("server.redis_url", "")
	v.SetDefault("server.frontend_url", "*")
	v.SetDefault("server.write_limit", 60)
}

func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		// ApiBaseUrl is the key used by existing deployments of the web front-end.
		{"api.base_url", "API_BASE_URL", "ApiBaseUrl"},
		{"api.timeout", "API_TIMEOUT"},
		{"log.level", "LOG_LEVEL"},
		{"log.pretty", "LOG_PRETTY"},
		{"server.port", "PORT"},
		{"server.database_url", "DATABASE_URL"},
		{"server.redis_url", "REDIS_URL"},
		{"server.frontend_url", "FRONTEND_URL"},
		{"server.write_limit", "WRITE_LIMIT_PER_MINUTE"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b[0], err)
		}
	}
	return nil
}
