package bot

import (
	"fmt"
	"time"

	"blogbot/internal/models"
)

const (
	// postAuthor is the fixed identity stamped on bot-authored posts.
	postAuthor = "Telegram Admin"

	// placeholderImage is used when generation fails or the image is skipped.
	placeholderImage = "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab"

	summaryLimit = 150
)

// postHashtags marks posts that originate from the bot
var postHashtags = []string{"telegram", "auto"}

// AssemblePost materializes a completed draft into an immutable post record
func AssemblePost(draft Draft, categoryID string) models.Post {
	now := time.Now()
	return models.Post{
		ID:       fmt.Sprintf("tg-%d", now.UnixMilli()),
		Title:    draft.Title,
		Summary:  draft.Summary,
		Content:  draft.Content,
		Author:   postAuthor,
		Date:     now.Format("2006-01-02"),
		Image:    draft.Image,
		Category: categoryID,
		Hashtags: append([]string(nil), postHashtags...),
		Comments: []models.Comment{},
		Views:    0,
	}
}

// summarize truncates content to the summary length. The ellipsis is always
// appended, even when the content is shorter than the limit.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) > summaryLimit {
		runes = runes[:summaryLimit]
	}
	return string(runes) + "..."
}
