// Package config loads application settings from defaults, config.yaml and
// the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/bestlastyear/internal/cache"
)

// Config is the typed view of the viper settings.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	API struct {
		Base string `mapstructure:"base"`
	} `mapstructure:"api"`

	Client struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"client"`

	Server struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`

	TMDB struct {
		APIKey  string `mapstructure:"apikey"`
		BaseURL string `mapstructure:"baseurl"`
	} `mapstructure:"tmdb"`

	Jikan struct {
		BaseURL string `mapstructure:"baseurl"`
	} `mapstructure:"jikan"`

	Cache CacheConfig `mapstructure:"cache"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Warmup struct {
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"warmup"`

	TUI struct {
		LogFile string `mapstructure:"logfile"`
	} `mapstructure:"tui"`
}

// CacheConfig selects and sizes the master-list cache.
type CacheConfig struct {
	Provider string        `mapstructure:"provider"`
	DBFile   string        `mapstructure:"dbfile"`
	TTL      time.Duration `mapstructure:"ttl"`
	Size     int           `mapstructure:"size"`
}

// SetDefaults registers the default value of every known key.
func SetDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("api.base", "http://localhost:8000")
	viper.SetDefault("client.timeout", "30s")
	viper.SetDefault("server.address", ":8000")

	viper.SetDefault("tmdb.apikey", "")
	viper.SetDefault("tmdb.baseurl", "https://api.themoviedb.org/3")
	viper.SetDefault("jikan.baseurl", "https://api.jikan.moe/v4")

	// Cache defaults
	viper.SetDefault("cache.provider", "sqlite")
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.size", cache.DefaultSize)

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// 04:00 every day, seconds field first
	viper.SetDefault("warmup.schedule", "0 0 4 * * *")
	viper.SetDefault("tui.logfile", "")
}

// Load reads config.yaml from the working directory if present, applies
// environment overrides and returns the result. A missing file is not an error.
func Load() (*Config, error) {
	SetDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	for key, env := range map[string]string{
		"tmdb.apikey":   "TMDB_API_KEY",
		"api.base":      "BESTLASTYEAR_API_BASE",
		"redis.address": "REDIS_ADDRESS",
		"log_level":     "LOG_LEVEL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// CacheProvider returns the settings for cache.New. Group labels the cache
// in metrics.
func (c *Config) CacheProvider(group string) cache.ProviderConfig {
	return cache.ProviderConfig{
		TTL:           c.Cache.TTL,
		Size:          c.Cache.Size,
		DBFile:        c.Cache.DBFile,
		RedisAddress:  c.Redis.Address,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		Group:         group,
	}
}
