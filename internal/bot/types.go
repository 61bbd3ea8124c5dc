package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"blogbot/internal/models"
)

// telegramAPI is the subset of *tgbotapi.BotAPI the bot depends on.
type telegramAPI interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// ImageGenerator produces a cover image reference for a text prompt.
// An empty result means the generator produced nothing; callers fall back
// to a placeholder.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Config tunes the poll loop and access control
type Config struct {
	// AllowedChatIDs restricts which chats may drive the bot.
	// Empty means any chat is accepted.
	AllowedChatIDs []int64

	PollTimeout time.Duration // long-poll timeout passed to getUpdates
	IdleDelay   time.Duration // pause between successful batches
	RetryDelay  time.Duration // pause after a transport failure

	SiteURL string
}

// Bot represents the Telegram blog-authoring bot
type Bot struct {
	api    telegramAPI
	images ImageGenerator
	logger *zap.Logger

	allowedChats map[int64]bool
	pollTimeout  time.Duration
	idleDelay    time.Duration
	retryDelay   time.Duration
	siteURL      string

	// Per-activation state, reset on Start. Only the poll loop goroutine
	// touches these after Start, so no lock is needed: the lifecycle mutex
	// guarantees at most one loop per bot instance.
	sessions     map[int64]*Session
	categories   []models.Category
	onNewPost    func(models.Post)
	postCount    int
	lastUpdateID int

	lifecycleMu sync.Mutex
	running     bool
	stop        chan struct{}
	done        chan struct{}
}
