package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		TTL      string `mapstructure:"ttl"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`
	Game struct {
		TimeBudget   int    `mapstructure:"timebudget"`
		TickInterval string `mapstructure:"tickinterval"`
		Catalog      string `mapstructure:"catalog"`
	} `mapstructure:"game"`
	Catalog struct {
		TTL string `mapstructure:"ttl"`
	} `mapstructure:"catalog"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`
}

// Default returns the configuration used when no file or environment overrides it.
func Default() Config {
	var c Config
	c.Server.Port = "8080"
	c.Redis.TTL = "10m"
	c.Redis.Prefix = "trivia"
	c.Game.TimeBudget = 30
	c.Game.TickInterval = "1s"
	c.Game.Catalog = "classic"
	c.Catalog.TTL = "10m"
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// Load merges defaults, the YAML file at path and the environment (GAME_TIMEBUDGET,
// REDIS_ADDR, ...). A missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()

	m := make(map[string]any)
	if err := mapstructure.Decode(cfg, &m); err != nil {
		return cfg, fmt.Errorf("mapstructure: %w", err)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return cfg, fmt.Errorf("merge config map: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			// Merge so the defaults stay registered as keys the environment can override.
			if err := v.MergeInConfig(); err != nil {
				return cfg, fmt.Errorf("read config from file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no game can run with.
func (c Config) Validate() error {
	var problems []string
	if c.Game.TimeBudget <= 0 {
		problems = append(problems, fmt.Sprintf("game.timebudget must be positive, got %d", c.Game.TimeBudget))
	}
	if raw := c.Game.TickInterval; raw != "" {
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("game.tickinterval must be a positive duration, got %q", raw))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
