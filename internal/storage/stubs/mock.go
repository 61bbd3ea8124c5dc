package stubs

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blogbot/internal/models"
	"blogbot/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for testing
// and for running the bot without a database (USE_MOCK_DB=true).
type MockDB struct {
	mu         sync.RWMutex
	posts      map[string]models.Post
	comments   map[string][]models.Comment
	views      map[string]uint64
	categories []models.Category
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		posts:    make(map[string]models.Post),
		comments: make(map[string][]models.Comment),
		views:    make(map[string]uint64),
	}
}

// Initialize seeds the default category set
func (m *MockDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = []models.Category{
		{ID: "all", Name: "All topics", Icon: "🌍"},
		{ID: "tech", Name: "Technology", Icon: "💻"},
		{ID: "design", Name: "Design", Icon: "🎨"},
		{ID: "business", Name: "Business", Icon: "💼"},
		{ID: "lifestyle", Name: "Lifestyle", Icon: "🌿"},
		{ID: "ai", Name: "Artificial Intelligence", Icon: "🤖"},
	}
	return nil
}

// AddPost stores a new post
func (m *MockDB) AddPost(ctx context.Context, post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[post.ID] = post
	return nil
}

// GetPost returns a single post with its comments and view counter
func (m *MockDB) GetPost(ctx context.Context, id string) (models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}

	post.Comments = append([]models.Comment{}, m.comments[id]...)
	post.Views += m.views[id]
	return post, nil
}

// ListPosts returns posts newest-first, optionally filtered by category and search text
func (m *MockDB) ListPosts(ctx context.Context, category, search string) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(search)

	var posts []models.Post
	for _, post := range m.posts {
		if category != "" && category != "all" && post.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			continue
		}
		post.Comments = nil
		post.Views += m.views[post.ID]
		posts = append(posts, post)
	}

	// Newest first; post ids embed a millisecond timestamp so the id is the tiebreak
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].ID > posts[j].ID
	})

	return posts, nil
}

// CountPosts returns the number of stored posts
func (m *MockDB) CountPosts(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.posts), nil
}

// AddComment appends a comment to a post
func (m *MockDB) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[postID]; !ok {
		return storage.ErrNotFound
	}
	m.comments[postID] = append(m.comments[postID], comment)
	return nil
}

// IncrementViews bumps the view counter of a post
func (m *MockDB) IncrementViews(ctx context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[postID]; !ok {
		return storage.ErrNotFound
	}
	m.views[postID]++
	return nil
}

// ListCategories returns the category set
func (m *MockDB) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.Category{}, m.categories...), nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}
