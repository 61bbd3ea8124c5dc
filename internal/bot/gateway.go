package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Outbound sends are fire-and-forget: a failed notification must not
// corrupt dialogue state, so transport errors are logged and dropped.

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendReplyKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) sendInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err),
		)
	}
}

// answerCallback clears the loading indicator on a pressed inline button
func (b *Bot) answerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// resolvePhotoURL resolves an uploaded photo to a durable, fetchable URL.
// Unlike the send helpers this surfaces failure: the upload stage keeps the
// user retrying on a failed resolution.
func (b *Bot) resolvePhotoURL(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve photo %s: %w", fileID, err)
	}
	return url, nil
}
