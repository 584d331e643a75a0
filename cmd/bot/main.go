package main

import (
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/bot"
	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/classifier"
	"github.com/shamik143/mindfulcompanion/internal/companion"
	"github.com/shamik143/mindfulcompanion/internal/generator"
	"github.com/shamik143/mindfulcompanion/internal/probe"
	"github.com/shamik143/mindfulcompanion/internal/storage"
	"github.com/shamik143/mindfulcompanion/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Load the embedded catalogs
	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second

	// Pick the classification and generation gateways: a dedicated
	// analysis backend wins, then OpenAI, then templates only.
	var cls classifier.Classifier
	var gen generator.Generator
	var prober *probe.Prober
	switch {
	case cfg.Backend.BaseURL != "":
		logger.Info("Using analysis backend", zap.String("base_url", cfg.Backend.BaseURL))
		cls = classifier.NewRemoteClassifier(cfg.Backend.BaseURL, timeout, cat, logger)
		gen = generator.NewRemoteGenerator(cfg.Backend.BaseURL, timeout, logger)
		prober = probe.NewProber(cfg.Backend.BaseURL, timeout)
	case cfg.OpenAI.APIKey != "":
		logger.Info("Using OpenAI gateways", zap.String("model", cfg.OpenAI.Model))
		cls = classifier.NewGPTClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, cat, logger)
		gen = generator.NewGPTGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, logger)
	default:
		logger.Info("No analysis backend configured, using templates only")
		cls = classifier.NewNeutralClassifier()
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, store, cat, prober, cls, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Wire the turn engine, with the bot as its insight surface
	engine := companion.NewEngine(store, cls, gen, cat, logger, b.DeliverInsight, companion.Options{
		ReplyDelay:    time.Duration(cfg.Companion.ReplyDelayMs) * time.Millisecond,
		InsightDelay:  time.Duration(cfg.Companion.InsightDelayMs) * time.Millisecond,
		HistoryWindow: cfg.Companion.HistoryWindow,
		ExcerptLength: cfg.Companion.ExcerptLength,
	})
	b.AttachEngine(engine)

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
