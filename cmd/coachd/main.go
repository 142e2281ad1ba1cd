package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/server"
	"github.com/xaenox/health-coach/internal/storage"
	"github.com/xaenox/health-coach/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Pick the responder: model-backed when a key is configured
	var responder server.Responder
	if cfg.OpenAI.APIKey != "" {
		logger.Info("Using model responder", zap.String("model", cfg.OpenAI.Model))
		responder = server.NewModelResponder(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.BaseURL,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	} else {
		logger.Info("No model key configured, using rule-based responder")
		responder = server.NewRuleBasedResponder()
	}

	handler := server.New(store, responder, logger)

	logger.Info("Starting backend", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, handler.Routes()); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
