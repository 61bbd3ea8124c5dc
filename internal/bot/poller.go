package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"blogbot/internal/models"
)

// Start activates the bot: it snapshots the category set and post counter,
// resets all sessions and launches the poll loop. Calling Start while a
// loop is already running is a no-op.
func (b *Bot) Start(onNewPost func(models.Post), categories []models.Category, postCount int) {
	b.lifecycleMu.Lock()
	defer b.lifecycleMu.Unlock()

	if b.running {
		b.logger.Warn("Start called while the poll loop is already running")
		return
	}
	b.running = true

	b.onNewPost = onNewPost
	b.categories = categories
	b.postCount = postCount
	b.sessions = make(map[int64]*Session)
	b.stop = make(chan struct{})
	b.done = make(chan struct{})

	go b.poll()
}

// Stop signals the poll loop and waits for it to exit. A request already in
// flight is allowed to finish first; waits between requests are interrupted
// immediately. Stopping a stopped bot is a no-op.
func (b *Bot) Stop() {
	b.lifecycleMu.Lock()
	defer b.lifecycleMu.Unlock()

	if !b.running {
		return
	}
	close(b.stop)
	<-b.done
	b.running = false
}

// poll repeatedly fetches update batches strictly after the last dispatched
// update id. Transport failures are never fatal: the loop logs, backs off
// and retries.
func (b *Bot) poll() {
	defer close(b.done)

	b.logger.Info("Poll loop started", zap.Int("offset", b.lastUpdateID+1))

	for {
		select {
		case <-b.stop:
			b.logger.Info("Poll loop stopped")
			return
		default:
		}

		updates, err := b.api.GetUpdates(tgbotapi.UpdateConfig{
			Offset:  b.lastUpdateID + 1,
			Timeout: int(b.pollTimeout / time.Second),
		})
		if err != nil {
			b.logger.Warn("Failed to fetch updates", zap.Error(err))
			if !b.wait(b.retryDelay) {
				return
			}
			continue
		}

		for _, update := range updates {
			b.dispatch(update)
			// Advance the cursor only after the update was dispatched, so a
			// crash mid-batch redelivers rather than skips
			if update.UpdateID > b.lastUpdateID {
				b.lastUpdateID = update.UpdateID
			}
		}

		if !b.wait(b.idleDelay) {
			return
		}
	}
}

// wait pauses for d but returns early (false) when the stop signal arrives
func (b *Bot) wait(d time.Duration) bool {
	select {
	case <-b.stop:
		b.logger.Info("Poll loop stopped")
		return false
	case <-time.After(d):
		return true
	}
}
