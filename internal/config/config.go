package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string

	// Optional operator allowlist. Empty means any chat may drive the bot.
	AllowedChatIDs []int64

	// Poll loop tuning
	PollTimeout    time.Duration // long-poll timeout passed to getUpdates
	PollIdleDelay  time.Duration // pause between successful batches
	PollRetryDelay time.Duration // pause after a transport failure

	// Generative API configuration
	AIAPIKey  string
	AIAPIBase string

	// Public site URL shown by the bot's "View Site" button
	SiteURL string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Allowed Chat IDs (optional)
	if allowedIDsStr := os.Getenv("ALLOWED_CHAT_IDS"); allowedIDsStr != "" {
		for _, idStr := range strings.Split(allowedIDsStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid chat ID in ALLOWED_CHAT_IDS: %s", idStr)
			}
			config.AllowedChatIDs = append(config.AllowedChatIDs, id)
		}
	}

	// Poll loop tuning
	timeoutSec, err := intEnv("POLL_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	config.PollTimeout = time.Duration(timeoutSec) * time.Second

	idleMs, err := intEnv("POLL_IDLE_DELAY_MS", 1000)
	if err != nil {
		return nil, err
	}
	config.PollIdleDelay = time.Duration(idleMs) * time.Millisecond

	retryMs, err := intEnv("POLL_RETRY_DELAY_MS", 5000)
	if err != nil {
		return nil, err
	}
	config.PollRetryDelay = time.Duration(retryMs) * time.Millisecond

	// Generative API (optional; image generation falls back to a placeholder without it)
	config.AIAPIKey = os.Getenv("AI_API_KEY")
	config.AIAPIBase = os.Getenv("AI_API_BASE")
	if config.AIAPIBase == "" {
		config.AIAPIBase = "https://generativelanguage.googleapis.com"
	}

	config.SiteURL = os.Getenv("SITE_URL")

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockDB {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
		}

		port, err := intEnv("CLICKHOUSE_PORT", 9000)
		if err != nil {
			return nil, err
		}
		config.ClickHousePort = port

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	return config, nil
}

// intEnv reads an integer environment variable, falling back to a default
// when the variable is unset.
func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
