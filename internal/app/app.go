package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"page-assistant/backend/internal/api"
	"page-assistant/backend/internal/broadcast"
	"page-assistant/backend/internal/config"
	"page-assistant/backend/internal/database"
	"page-assistant/backend/internal/llm"
	"page-assistant/backend/internal/notify"
	"page-assistant/backend/internal/repository"
	"page-assistant/backend/internal/service"
)

// App holds the assembled application: the open database handle and the
// configured HTTP server, ready to listen.
type App struct {
	DB     *sql.DB
	Server *http.Server
}

// NewApp wires every layer together: database, repository, provider factory,
// services, broadcast hub and HTTP handlers.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewSQLiteRepository(db)
	providers := llm.NewFactory()
	hub := broadcast.NewHub()
	notifier := notify.LogNotifier{}

	settingsService := service.NewSettingsService(db)
	chatService := service.NewChatService(repo, providers, settingsService, hub, notifier)

	chatHandler := api.NewChatHandler(chatService, hub)
	settingsHandler := api.NewSettingsHandler(settingsService)
	router := api.NewRouter(chatHandler, settingsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server}, nil
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	application, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to build application", "error", err)
		return 1
	}
	defer func() {
		if err := application.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	slog.Info("Starting server", "addr", application.Server.Addr)
	if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
