package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blogbot/internal/models"
)

// Reply-keyboard button labels. These double as the text tokens the
// dispatcher matches on, so they must stay in sync with the rendered menu.
const (
	buttonMainMenu   = "🏠 Main Menu"
	buttonStats      = "📊 Statistics"
	buttonNewPost    = "📝 New Post"
	buttonCategories = "📁 Categories"
	buttonViewSite   = "🌐 View Site"
)

// Inline callback payloads
const (
	callbackImageAI        = "img_ai"
	callbackImageUpload    = "img_upload"
	callbackImageSkip      = "img_skip"
	callbackCategoryPrefix = "set_cat:"
)

// mainMenuKeyboard is the persistent reply keyboard shown in the idle stage
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonStats),
			tgbotapi.NewKeyboardButton(buttonNewPost),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCategories),
			tgbotapi.NewKeyboardButton(buttonViewSite),
		),
	)
}

// homeKeyboard replaces the menu with a single escape hatch while the
// authoring flow is in progress
func homeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonMainMenu),
		),
	)
}

// imageChoiceKeyboard offers the three cover image paths
func imageChoiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 AI image", callbackImageAI),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼️ Upload a photo", callbackImageUpload),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭️ Skip the image", callbackImageSkip),
		),
	)
}

// categoryKeyboard renders one button per category, excluding the "all"
// pseudo-category used by the site's filter bar
func categoryKeyboard(categories []models.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, category := range categories {
		if category.ID == "all" {
			continue
		}
		button := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s %s", category.Icon, category.Name),
			callbackCategoryPrefix+category.ID,
		)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
