package bot

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollTimeout = 30 * time.Second
	defaultIdleDelay   = time.Second
	defaultRetryDelay  = 5 * time.Second
)

// New creates a new blog-authoring bot on top of a Telegram API client
func New(api telegramAPI, images ImageGenerator, cfg Config, logger *zap.Logger) *Bot {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = defaultIdleDelay
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	allowedChats := make(map[int64]bool)
	for _, id := range cfg.AllowedChatIDs {
		allowedChats[id] = true
	}

	return &Bot{
		api:          api,
		images:       images,
		logger:       logger,
		allowedChats: allowedChats,
		pollTimeout:  cfg.PollTimeout,
		idleDelay:    cfg.IdleDelay,
		retryDelay:   cfg.RetryDelay,
		siteURL:      cfg.SiteURL,
		sessions:     make(map[int64]*Session),
	}
}
