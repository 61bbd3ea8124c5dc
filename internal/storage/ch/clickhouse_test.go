package ch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"blogbot/internal/models"
	"blogbot/internal/storage"
)

// runMigrations manually creates the content tables
func runMigrations(ctx context.Context, db *ClickHouseDB) error {
	// Drop existing tables
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS post_views")
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS comments")
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS posts")
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS categories")

	// Create posts table
	err := db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id String,
			title String,
			summary String,
			content String,
			author String,
			date String,
			image String,
			category String,
			hashtags Array(String)
		) ENGINE = MergeTree()
		ORDER BY id
	`)
	if err != nil {
		return err
	}

	// Create comments table
	err = db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS comments (
			post_id String,
			id String,
			author String,
			text String,
			date String,
			avatar String
		) ENGINE = MergeTree()
		ORDER BY (post_id, id)
	`)
	if err != nil {
		return err
	}

	// Create view counter table
	err = db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS post_views (
			post_id String,
			views UInt64
		) ENGINE = SummingMergeTree(views)
		ORDER BY post_id
	`)
	if err != nil {
		return err
	}

	// Create categories table
	return db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS categories (
			id String,
			name String,
			icon String,
			position UInt8
		) ENGINE = MergeTree()
		ORDER BY position
	`)
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseDB, func()) {
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	// Create database connection
	db, err := NewClickHouseDB(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	// Cleanup function
	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

func samplePost(id, title, content, category, date string) models.Post {
	return models.Post{
		ID:       id,
		Title:    title,
		Summary:  content + "...",
		Content:  content,
		Author:   "Telegram Admin",
		Date:     date,
		Image:    "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab",
		Category: category,
		Hashtags: []string{"telegram", "auto"},
	}
}

// TestClickHouseDB_AddAndGetPost tests the post round trip
func TestClickHouseDB_AddAndGetPost(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	post := samplePost("tg-1", "Go Concurrency", "Channels and goroutines", "tech", "2026-08-01")
	require.NoError(t, db.AddPost(ctx, post))

	stored, err := db.GetPost(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, "Go Concurrency", stored.Title)
	assert.Equal(t, "Channels and goroutines", stored.Content)
	assert.Equal(t, "Telegram Admin", stored.Author)
	assert.Equal(t, "tech", stored.Category)
	assert.Equal(t, []string{"telegram", "auto"}, stored.Hashtags)
	assert.Equal(t, uint64(0), stored.Views)
	assert.NotNil(t, stored.Comments)
	assert.Empty(t, stored.Comments)

	// Unknown ids map to the sentinel error
	_, err = db.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestClickHouseDB_ListPosts tests listing with filters
func TestClickHouseDB_ListPosts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.AddPost(ctx, samplePost("tg-1", "Go Concurrency", "Channels and goroutines", "tech", "2026-08-01")))
	require.NoError(t, db.AddPost(ctx, samplePost("tg-2", "Color Theory", "Picking a palette", "design", "2026-08-15")))
	require.NoError(t, db.AddPost(ctx, samplePost("tg-3", "Go Modules", "Dependency management", "tech", "2026-08-15")))

	t.Run("newest first", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "tg-3", posts[0].ID)
		assert.Equal(t, "tg-2", posts[1].ID)
		assert.Equal(t, "tg-1", posts[2].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "tech", "")
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("all matches everything", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "all", "")
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("search over title and content", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "", "PALETTE")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "tg-2", posts[0].ID)
	})

	t.Run("category and search combine", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "tech", "modules")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "tg-3", posts[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		posts, err := db.ListPosts(ctx, "lifestyle", "")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

// TestClickHouseDB_CountPosts tests the post counter
func TestClickHouseDB_CountPosts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	count, err := db.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, db.AddPost(ctx, samplePost("tg-1", "A", "a", "tech", "2026-08-01")))
	require.NoError(t, db.AddPost(ctx, samplePost("tg-2", "B", "b", "tech", "2026-08-02")))

	count, err = db.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestClickHouseDB_Comments tests comment storage
func TestClickHouseDB_Comments(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.AddPost(ctx, samplePost("tg-1", "A", "a", "tech", "2026-08-01")))

	comment := models.Comment{
		ID:     "c1",
		Author: "Reader",
		Text:   "Nice one",
		Date:   "2026-08-20",
		Avatar: "https://i.pravatar.cc/150",
	}
	require.NoError(t, db.AddComment(ctx, "tg-1", comment))

	post, err := db.GetPost(ctx, "tg-1")
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "Reader", post.Comments[0].Author)
	assert.Equal(t, "Nice one", post.Comments[0].Text)

	// Comments on unknown posts are rejected
	err = db.AddComment(ctx, "missing", comment)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestClickHouseDB_Views tests the view counter
func TestClickHouseDB_Views(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, db.AddPost(ctx, samplePost("tg-1", "A", "a", "tech", "2026-08-01")))

	require.NoError(t, db.IncrementViews(ctx, "tg-1"))
	require.NoError(t, db.IncrementViews(ctx, "tg-1"))
	require.NoError(t, db.IncrementViews(ctx, "tg-1"))

	post, err := db.GetPost(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), post.Views)

	// Listings carry the aggregated counter too
	posts, err := db.ListPosts(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, uint64(3), posts[0].Views)

	err = db.IncrementViews(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestClickHouseDB_ListCategories tests category ordering
func TestClickHouseDB_ListCategories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	seed := []struct {
		id       string
		name     string
		icon     string
		position uint8
	}{
		{"design", "Design", "🎨", 3},
		{"all", "All topics", "🌍", 1},
		{"tech", "Technology", "💻", 2},
	}
	for _, c := range seed {
		err := db.conn.Exec(ctx,
			`INSERT INTO categories (id, name, icon, position) VALUES (?, ?, ?, ?)`,
			c.id, c.name, c.icon, c.position)
		require.NoError(t, err)
	}

	categories, err := db.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "all", categories[0].ID)
	assert.Equal(t, "tech", categories[1].ID)
	assert.Equal(t, "design", categories[2].ID)
}

// TestClickHouseDB_Close tests connection closing
func TestClickHouseDB_Close(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.Close()
	assert.NoError(t, err)
}
