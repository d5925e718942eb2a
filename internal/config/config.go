package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DataSource DataSourceConfig `yaml:"data_source"`
	History    HistoryConfig    `yaml:"history"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Cache      CacheConfig      `yaml:"cache"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Log        LogConfig        `yaml:"log"`
	Proxy      string           `yaml:"proxy" env:"HTTPS_PROXY"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"TRENDBOARD_ADDR" validate:"required"`
}

// DataSourceConfig selects the price history provider and carries its credentials.
type DataSourceConfig struct {
	Provider string `yaml:"provider" env:"TRENDBOARD_PROVIDER" validate:"oneof=yahoo polygon alpaca rest mock"`
	// BaseURL overrides the Yahoo endpoint, and is the bars endpoint for the rest provider.
	BaseURL         string  `yaml:"base_url" env:"TRENDBOARD_DATA_BASE_URL" validate:"required_if=Provider rest"`
	APIKey          string  `yaml:"api_key" env:"TRENDBOARD_DATA_API_KEY"`
	PolygonAPIKey   string  `yaml:"polygon_api_key" env:"POLYGON_API_KEY" validate:"required_if=Provider polygon"`
	AlpacaKeyID     string  `yaml:"alpaca_key_id" env:"APCA_API_KEY_ID" validate:"required_if=Provider alpaca"`
	AlpacaSecretKey string  `yaml:"alpaca_secret_key" env:"APCA_API_SECRET_KEY" validate:"required_if=Provider alpaca"`
	AlpacaDataURL   string  `yaml:"alpaca_data_url" env:"APCA_API_DATA_URL"`
	MockPrice       float64 `yaml:"mock_price" env:"TRENDBOARD_MOCK_PRICE" validate:"gte=0"`
}

type HistoryConfig struct {
	LookbackYears int           `yaml:"lookback_years" env:"TRENDBOARD_LOOKBACK_YEARS" validate:"gt=0"`
	FastWindow    int           `yaml:"fast_window" env:"TRENDBOARD_FAST_WINDOW" validate:"gt=0"`
	SlowWindow    int           `yaml:"slow_window" env:"TRENDBOARD_SLOW_WINDOW" validate:"gtfield=FastWindow"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"TRENDBOARD_HISTORY_TTL" validate:"gt=0"`
}

type DirectoryConfig struct {
	FeedURL  string        `yaml:"feed_url" env:"TRENDBOARD_DIRECTORY_URL" validate:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"TRENDBOARD_DIRECTORY_TTL" validate:"gt=0"`
}

// CacheConfig selects the store behind both loader caches.
type CacheConfig struct {
	Backend       string `yaml:"backend" env:"TRENDBOARD_CACHE_BACKEND" validate:"oneof=memory sqlite redis none"`
	SQLitePath    string `yaml:"sqlite_path" env:"TRENDBOARD_SQLITE_PATH" validate:"required_if=Backend sqlite"`
	RedisAddr     string `yaml:"redis_addr" env:"TRENDBOARD_REDIS_ADDR" validate:"required_if=Backend redis"`
	RedisPassword string `yaml:"redis_password" env:"TRENDBOARD_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"TRENDBOARD_REDIS_DB" validate:"gte=0"`
	RedisPrefix   string `yaml:"redis_prefix" env:"TRENDBOARD_REDIS_PREFIX"`
}

// ScheduleConfig enables optional maintenance jobs. Empty expressions disable them.
type ScheduleConfig struct {
	PurgeCron     string `yaml:"purge_cron" env:"TRENDBOARD_PURGE_CRON"`
	DirectoryCron string `yaml:"directory_cron" env:"TRENDBOARD_DIRECTORY_CRON"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"TRENDBOARD_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8501"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.MockPrice == 0 {
		c.DataSource.MockPrice = 100
	}
	if c.History.LookbackYears == 0 {
		c.History.LookbackYears = 5
	}
	if c.History.FastWindow == 0 {
		c.History.FastWindow = 50
	}
	if c.History.SlowWindow == 0 {
		c.History.SlowWindow = 200
	}
	if c.History.CacheTTL == 0 {
		c.History.CacheTTL = time.Hour
	}
	if c.Directory.FeedURL == "" {
		c.Directory.FeedURL = "https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqtraded.txt"
	}
	if c.Directory.CacheTTL == 0 {
		c.Directory.CacheTTL = 24 * time.Hour
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.RedisPrefix == "" {
		c.Cache.RedisPrefix = "trendboard"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks field constraints after defaults have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
