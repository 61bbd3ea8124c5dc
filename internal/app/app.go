package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"blogbot/internal/ai"
	"blogbot/internal/api"
	"blogbot/internal/bot"
	"blogbot/internal/config"
	"blogbot/internal/models"
	"blogbot/internal/storage"
	"blogbot/internal/storage/ch"
	"blogbot/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	db     storage.Storage
	ai     *ai.Client
	bot    *bot.Bot
	server *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envLoaded := godotenv.Load() == nil

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !envLoaded {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting blog bot")

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	if err := app.initBot(); err != nil {
		return nil, err
	}

	app.initHTTPServer()

	return app, nil
}

// initStorage initializes the post store
func (a *App) initStorage() error {
	var db storage.Storage
	if a.config.UseMockDB {
		a.logger.Info("Using in-memory post store")
		db = stubs.NewMockDB()
	} else {
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.Bool("tls", a.config.ClickHouseUseTLS),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	}

	if err := db.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize post store: %w", err)
	}
	a.logger.Info("Post store initialized")

	a.db = db
	return nil
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	tgAPI, err := tgbotapi.NewBotAPI(a.config.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created", zap.String("bot_username", tgAPI.Self.UserName))

	a.ai = ai.NewClient(a.config.AIAPIBase, a.config.AIAPIKey)

	a.bot = bot.New(tgAPI, a.ai, bot.Config{
		AllowedChatIDs: a.config.AllowedChatIDs,
		PollTimeout:    a.config.PollTimeout,
		IdleDelay:      a.config.PollIdleDelay,
		RetryDelay:     a.config.PollRetryDelay,
		SiteURL:        a.config.SiteURL,
	}, a.logger)

	return nil
}

// initHTTPServer initializes the HTTP server for health checks and the blog API
func (a *App) initHTTPServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	api.NewServer(a.db, a.ai, a.logger).RegisterRoutes(mux)

	a.server = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx := context.Background()

	// Snapshot the category set and post counter for this bot activation
	categories, err := a.db.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	postCount, err := a.db.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}

	a.bot.Start(a.storePost, categories, postCount)
	a.logger.Info("Bot polling started",
		zap.Int("categories", len(categories)),
		zap.Int("posts", postCount),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	a.logger.Info("Shutting down")
	return a.Shutdown()
}

// storePost persists a post assembled by the bot
func (a *App) storePost(post models.Post) {
	if err := a.db.AddPost(context.Background(), post); err != nil {
		a.logger.Error("Failed to store post",
			zap.String("post_id", post.ID),
			zap.Error(err),
		)
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.bot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing post store", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}
