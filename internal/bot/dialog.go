package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// dispatch classifies one update and advances the owning chat's dialogue
func (b *Bot) dispatch(update tgbotapi.Update) {
	// Recover from panics to prevent a bad update from killing the poll loop
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
			)
		}
	}()

	ev, ok := classifyUpdate(update)
	if !ok {
		b.logger.Debug("Dropping update without chat id",
			zap.Int("update_id", update.UpdateID))
		return
	}

	if len(b.allowedChats) > 0 && !b.allowedChats[ev.chatID] {
		b.logger.Warn("Ignoring update from disallowed chat",
			zap.Int64("chat_id", ev.chatID))
		return
	}

	if ev.kind == eventCallback {
		b.answerCallback(ev.callbackID)
	}

	b.apply(b.session(ev.chatID), ev)
}

// apply is the stage transition table: given the chat's session and one
// classified event it mutates the session and emits the outbound replies.
// Events that do not match the current stage leave the session untouched
// and get a generic "not understood" reply.
func (b *Bot) apply(session *Session, ev event) {
	// Menu tokens work from any stage
	if ev.kind == eventText {
		switch ev.text {
		case "/start", buttonMainMenu:
			session.reset()
			b.showMainMenu(ev.chatID)
			return
		case buttonStats:
			b.sendStats(ev.chatID)
			return
		case buttonNewPost:
			session.reset()
			session.Stage = StageAwaitingTitle
			b.sendReplyKeyboard(ev.chatID, "Great! Send a title for the new post:", homeKeyboard())
			return
		case buttonCategories:
			b.sendCategories(ev.chatID)
			return
		case buttonViewSite:
			b.sendSiteLink(ev.chatID)
			return
		}
	}

	switch session.Stage {
	case StageAwaitingTitle:
		if ev.kind == eventText && ev.text != "" {
			session.Draft.Title = ev.text
			session.Stage = StageAwaitingContent
			b.sendText(ev.chatID, "Got it. Now send the main text of the article:")
			return
		}

	case StageAwaitingContent:
		if ev.kind == eventText && ev.text != "" {
			session.Draft.Content = ev.text
			session.Draft.Summary = summarize(ev.text)
			session.Stage = StageAwaitingImageChoice
			b.sendInlineKeyboard(ev.chatID, "Choose how to add a cover image:", imageChoiceKeyboard())
			return
		}

	case StageAwaitingImageChoice:
		if ev.kind == eventCallback {
			switch ev.callbackData {
			case callbackImageAI:
				b.attachGeneratedImage(ev.chatID, session)
				return
			case callbackImageUpload:
				session.Stage = StageAwaitingImageUpload
				b.sendText(ev.chatID, "🖼️ Send the image now (as a photo, not as a file):")
				return
			case callbackImageSkip:
				session.Draft.Image = placeholderImage
				b.askCategory(ev.chatID, session)
				return
			}
		}

	case StageAwaitingImageUpload:
		if ev.kind == eventPhoto {
			url, err := b.resolvePhotoURL(ev.photoFileID)
			if err != nil {
				b.logger.Warn("Photo resolution failed",
					zap.Int64("chat_id", ev.chatID),
					zap.Error(err),
				)
				// Stay in the upload stage so the user can retry
				b.sendText(ev.chatID, "❌ Could not fetch the image. Send another photo or try again.")
				return
			}
			session.Draft.Image = url
			b.askCategory(ev.chatID, session)
			return
		}

	case StageAwaitingCategory:
		if ev.kind == eventCallback && strings.HasPrefix(ev.callbackData, callbackCategoryPrefix) {
			b.publish(ev.chatID, session, strings.TrimPrefix(ev.callbackData, callbackCategoryPrefix))
			return
		}
	}

	b.sendText(ev.chatID, "I didn't understand that. Try /start.")
}

// showMainMenu resets the chat's keyboard to the main menu
func (b *Bot) showMainMenu(chatID int64) {
	b.sendReplyKeyboard(chatID, "Welcome to the blog admin bot! Choose an action:", mainMenuKeyboard())
}

func (b *Bot) sendStats(chatID int64) {
	text := fmt.Sprintf("📈 Site statistics:\n\n📝 Total posts: %d\n👤 Active users: 1,240\n🚀 Server: Stable", b.postCount)
	b.sendText(chatID, text)
}

func (b *Bot) sendCategories(chatID int64) {
	var text strings.Builder
	text.WriteString("Available categories:\n\n")
	for _, category := range b.categories {
		if category.ID == "all" {
			continue
		}
		text.WriteString(fmt.Sprintf("%s %s\n", category.Icon, category.Name))
	}
	b.sendText(chatID, text.String())
}

func (b *Bot) sendSiteLink(chatID int64) {
	if b.siteURL == "" {
		b.sendText(chatID, "The site URL is not configured.")
		return
	}
	b.sendText(chatID, fmt.Sprintf("🌐 %s", b.siteURL))
}

// attachGeneratedImage asks the image collaborator for a cover based on the
// draft title. A failed or empty generation is not an error: the placeholder
// is used and the flow continues as if the image was skipped.
func (b *Bot) attachGeneratedImage(chatID int64, session *Session) {
	b.sendText(chatID, "⏳ The AI is preparing an image...")

	prompt := session.Draft.Title
	if prompt == "" {
		prompt = "Abstract Design"
	}

	image, err := b.images.GenerateImage(context.Background(), prompt)
	if err != nil {
		b.logger.Warn("Image generation failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	if image == "" {
		image = placeholderImage
	}

	session.Draft.Image = image
	b.askCategory(chatID, session)
}

// askCategory moves the session to the terminal stage and offers the
// category buttons
func (b *Bot) askCategory(chatID int64, session *Session) {
	session.Stage = StageAwaitingCategory
	b.sendInlineKeyboard(chatID, "Almost done! Pick a category:", categoryKeyboard(b.categories))
}

// publish materializes the draft into a post and hands it to the store
// callback. The category id is taken from the callback payload verbatim,
// even when it does not match the supplied category set.
func (b *Bot) publish(chatID int64, session *Session, categoryID string) {
	post := AssemblePost(session.Draft, categoryID)
	b.onNewPost(post)
	b.postCount++

	b.logger.Info("Published post from chat",
		zap.Int64("chat_id", chatID),
		zap.String("post_id", post.ID),
		zap.String("category", post.Category),
	)

	b.sendText(chatID, fmt.Sprintf("✅ Done! The post %q was added to the %s category.", post.Title, categoryID))
	session.reset()
	b.showMainMenu(chatID)
}
