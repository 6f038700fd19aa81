package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocks-tracker-web/aggregator"
	"stocks-tracker-web/backend"
	"stocks-tracker-web/cache"
	"stocks-tracker-web/config"
	"stocks-tracker-web/database"
	"stocks-tracker-web/handlers"
	"stocks-tracker-web/market"
	"stocks-tracker-web/session"
	"stocks-tracker-web/watchlist"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.With().Logger()
}

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis backs sessions and the market cache when configured.
	var store cache.Store = cache.NewMemoryStore(10 * time.Minute)
	if cfg.Redis.Addr != "" {
		rdb, err := config.InitRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb)
	}

	// PostgreSQL keeps watchlists across restarts when configured.
	var symbols watchlist.SymbolStore = watchlist.NewMemoryStore()
	if dsn := cfg.DSN(); dsn != "" {
		db, err := config.InitDB(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to the database")
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get database instance")
		}
		defer sqlDB.Close()

		if err := database.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate models")
		}
		symbols = watchlist.NewGormStore(db)
	}

	watchProvider, err := market.New(cfg.Market.WatchlistProvider, market.Options{
		APIKey:            providerKey(cfg, cfg.Market.WatchlistProvider),
		Timeout:           cfg.Market.Timeout,
		RequestsPerMinute: cfg.Market.RequestsPerMinute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("watchlist provider")
	}
	holdingsProvider, err := market.New(cfg.Market.HoldingsProvider, market.Options{
		APIKey:            providerKey(cfg, cfg.Market.HoldingsProvider),
		Timeout:           cfg.Market.Timeout,
		RequestsPerMinute: cfg.Market.RequestsPerMinute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("holdings provider")
	}

	agg := aggregator.New(
		market.NewCached(watchProvider, store, cfg.Market.QuoteTTL, cfg.Market.SeriesTTL),
		market.NewCached(holdingsProvider, store, cfg.Market.QuoteTTL, cfg.Market.SeriesTTL),
		aggregator.Options{
			WatchlistDays: cfg.Market.WatchlistDays,
			HoldingDays:   cfg.Market.HoldingDays,
			Concurrency:   cfg.Market.Concurrency,
		},
	)
	boards := watchlist.NewService(agg, symbols, watchlist.DefaultCapacity, watchlist.DefaultSymbols)
	sessions := session.NewManager(store, cfg.Session.TokenTTL, cfg.Session.AnonymousTTL)

	h := handlers.New(backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout), sessions, boards, agg, handlers.Options{
		NewsTTL:         cfg.News.TTL,
		RefreshInterval: cfg.Market.RefreshInterval,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})
	router := handlers.SetupRouter(h, sessions, handlers.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SecureCookies:  cfg.Server.SecureCookies,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("watchlist_provider", watchProvider.Name()).
			Str("holdings_provider", holdingsProvider.Name()).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

func providerKey(cfg *config.Config, provider string) string {
	switch provider {
	case "alphavantage":
		return cfg.Market.AlphaVantageKey
	case "twelvedata":
		return cfg.Market.TwelveDataKey
	default:
		return ""
	}
}
