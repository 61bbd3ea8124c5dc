package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// eventKind tags the classified shape of an inbound update
type eventKind int

const (
	eventText eventKind = iota
	eventPhoto
	eventCallback
)

// event is the dispatcher's view of one inbound update, classified once
// at the transport boundary
type event struct {
	kind   eventKind
	chatID int64

	text string // eventText

	photoFileID string // eventPhoto; largest resolution variant

	callbackID   string // eventCallback
	callbackData string
}

// classifyUpdate reduces a raw update to a tagged event. The second return
// is false when no originating chat can be determined; such updates are
// silently dropped.
func classifyUpdate(update tgbotapi.Update) (event, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return event{}, false
		}
		return event{
			kind:         eventCallback,
			chatID:       cb.Message.Chat.ID,
			callbackID:   cb.ID,
			callbackData: cb.Data,
		}, true
	}

	if msg := update.Message; msg != nil && msg.Chat != nil {
		if len(msg.Photo) > 0 {
			// Telegram lists photo variants smallest to largest
			return event{
				kind:        eventPhoto,
				chatID:      msg.Chat.ID,
				photoFileID: msg.Photo[len(msg.Photo)-1].FileID,
			}, true
		}
		return event{
			kind:   eventText,
			chatID: msg.Chat.ID,
			text:   msg.Text,
		}, true
	}

	return event{}, false
}
