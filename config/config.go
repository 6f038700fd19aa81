package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultPath = "config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		Environment    string   `yaml:"environment"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SecureCookies  bool     `yaml:"secure_cookies"`
		RateLimit      float64  `yaml:"rate_limit"`
		RateBurst      int      `yaml:"rate_burst"`
	} `yaml:"server"`
	Backend struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Market struct {
		WatchlistProvider string        `yaml:"watchlist_provider"`
		HoldingsProvider  string        `yaml:"holdings_provider"`
		AlphaVantageKey   string        `yaml:"alpha_vantage_key"`
		TwelveDataKey     string        `yaml:"twelve_data_key"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
		Timeout           time.Duration `yaml:"timeout"`
		QuoteTTL          time.Duration `yaml:"quote_ttl"`
		SeriesTTL         time.Duration `yaml:"series_ttl"`
		RefreshInterval   time.Duration `yaml:"refresh_interval"`
		WatchlistDays     int           `yaml:"watchlist_days"`
		HoldingDays       int           `yaml:"holding_days"`
		Concurrency       int           `yaml:"concurrency"`
	} `yaml:"market"`
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Port     string `yaml:"port"`
		TimeZone string `yaml:"time_zone"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Session struct {
		TokenTTL     time.Duration `yaml:"token_ttl"`
		AnonymousTTL time.Duration `yaml:"anonymous_ttl"`
	} `yaml:"session"`
	News struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"news"`
	LogLevel string `yaml:"log_level"`
}

// Load reads .env when present, then the YAML file at path when present,
// then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("ENVIRONMENT", &c.Server.Environment)
	str("BACKEND_URL", &c.Backend.URL)
	str("WATCHLIST_PROVIDER", &c.Market.WatchlistProvider)
	str("HOLDINGS_PROVIDER", &c.Market.HoldingsProvider)
	str("ALPHA_VANTAGE_API_KEY", &c.Market.AlphaVantageKey)
	str("TWELVE_DATA_API_KEY", &c.Market.TwelveDataKey)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("DB_PORT", &c.Database.Port)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("LOG_LEVEL", &c.LogLevel)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("MARKET_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARKET_REQUESTS_PER_MINUTE: %w", err)
		}
		c.Market.RequestsPerMinute = n
	}

	durations := map[string]*time.Duration{
		"BACKEND_TIMEOUT":  &c.Backend.Timeout,
		"REFRESH_INTERVAL": &c.Market.RefreshInterval,
		"QUOTE_CACHE_TTL":  &c.Market.QuoteTTL,
		"SERIES_CACHE_TTL": &c.Market.SeriesTTL,
		"TOKEN_TTL":        &c.Session.TokenTTL,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 20
	}
	if c.Backend.URL == "" {
		c.Backend.URL = "http://127.0.0.1:8000"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Market.WatchlistProvider == "" {
		c.Market.WatchlistProvider = "alphavantage"
	}
	if c.Market.HoldingsProvider == "" {
		c.Market.HoldingsProvider = "twelvedata"
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = 10 * time.Second
	}
	if c.Market.QuoteTTL == 0 {
		c.Market.QuoteTTL = 50 * time.Second
	}
	if c.Market.SeriesTTL == 0 {
		c.Market.SeriesTTL = time.Hour
	}
	if c.Market.RefreshInterval == 0 {
		c.Market.RefreshInterval = 60 * time.Second
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Database.TimeZone == "" {
		c.Database.TimeZone = "UTC"
	}
	if c.Session.TokenTTL == 0 {
		c.Session.TokenTTL = 60 * time.Minute
	}
	if c.News.TTL == 0 {
		c.News.TTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Market.RefreshInterval < time.Second {
		return fmt.Errorf("market.refresh_interval must be at least 1s")
	}
	for _, provider := range []string{c.Market.WatchlistProvider, c.Market.HoldingsProvider} {
		switch provider {
		case "alphavantage":
			if c.Market.AlphaVantageKey == "" {
				return fmt.Errorf("market.alpha_vantage_key is required by the alphavantage provider")
			}
		case "twelvedata":
			if c.Market.TwelveDataKey == "" {
				return fmt.Errorf("market.twelve_data_key is required by the twelvedata provider")
			}
		case "yahoo":
		default:
			return fmt.Errorf("unknown market provider %q", provider)
		}
	}
	if c.Database.Host != "" && (c.Database.User == "" || c.Database.Name == "") {
		return fmt.Errorf("database.user and database.name are required with database.host")
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Server.Environment == "production"
}

// DSN is the PostgreSQL connection string, empty when no database is configured.
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.Port,
		c.Database.TimeZone,
	)
}

// InitDB opens the PostgreSQL connection.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to the database: %w", err)
	}
	return db, nil
}

// InitRedis connects to Redis and checks it answers.
func InitRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}
