package storage

import (
	"context"
	"errors"

	"blogbot/internal/models"
)

// ErrNotFound is returned when a post id does not exist in the store.
var ErrNotFound = errors.New("post not found")

// Storage defines the interface for blog content persistence
type Storage interface {
	// Post operations
	AddPost(ctx context.Context, post models.Post) error
	GetPost(ctx context.Context, id string) (models.Post, error)

	// ListPosts returns posts newest-first.
	// If category is non-empty, only posts in that category are returned
	// ("all" matches everything). If search is non-empty, only posts whose
	// title or content contains it (case-insensitive) are returned.
	// Comments are not populated on list results; use GetPost.
	ListPosts(ctx context.Context, category, search string) ([]models.Post, error)
	CountPosts(ctx context.Context) (int, error)

	// Comment and view operations
	AddComment(ctx context.Context, postID string, comment models.Comment) error
	IncrementViews(ctx context.Context, postID string) error

	// Category operations
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
