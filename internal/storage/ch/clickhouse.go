package ch

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"blogbot/internal/models"
	"blogbot/internal/storage"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

// AddPost stores a new post
func (db *ClickHouseDB) AddPost(ctx context.Context, post models.Post) error {
	err := db.conn.Exec(ctx, `
		INSERT INTO posts (id, title, summary, content, author, date, image, category, hashtags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Summary, post.Content, post.Author,
		post.Date, post.Image, post.Category, post.Hashtags)
	if err != nil {
		return fmt.Errorf("failed to add post: %w", err)
	}
	return nil
}

// GetPost returns a single post with its comments and view counter
func (db *ClickHouseDB) GetPost(ctx context.Context, id string) (models.Post, error) {
	row := db.conn.QueryRow(ctx, `
		SELECT id, title, summary, content, author, date, image, category, hashtags
		FROM posts WHERE id = ?`, id)

	var post models.Post
	err := row.Scan(&post.ID, &post.Title, &post.Summary, &post.Content,
		&post.Author, &post.Date, &post.Image, &post.Category, &post.Hashtags)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to get post: %w", err)
	}

	comments, err := db.listComments(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	post.Comments = comments

	viewsRow := db.conn.QueryRow(ctx,
		`SELECT sum(views) FROM post_views WHERE post_id = ?`, id)
	if err := viewsRow.Scan(&post.Views); err != nil {
		return models.Post{}, fmt.Errorf("failed to get post views: %w", err)
	}

	return post, nil
}

// ListPosts returns posts newest-first, optionally filtered by category and search text
func (db *ClickHouseDB) ListPosts(ctx context.Context, category, search string) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.summary, p.content, p.author, p.date, p.image,
		       p.category, p.hashtags, v.total
		FROM posts p
		LEFT JOIN (SELECT post_id, sum(views) AS total FROM post_views GROUP BY post_id) v
		ON p.id = v.post_id
		WHERE 1 = 1`
	var args []interface{}

	if category != "" && category != "all" {
		query += ` AND p.category = ?`
		args = append(args, category)
	}
	if search != "" {
		query += ` AND positionCaseInsensitiveUTF8(concat(p.title, ' ', p.content), ?) > 0`
		args = append(args, search)
	}
	query += ` ORDER BY p.date DESC, p.id DESC`

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Summary, &post.Content,
			&post.Author, &post.Date, &post.Image, &post.Category,
			&post.Hashtags, &post.Views); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// CountPosts returns the number of stored posts
func (db *ClickHouseDB) CountPosts(ctx context.Context) (int, error) {
	row := db.conn.QueryRow(ctx, `SELECT count() FROM posts`)

	var count uint64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return int(count), nil
}

// AddComment appends a comment to a post
func (db *ClickHouseDB) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	if err := db.ensurePost(ctx, postID); err != nil {
		return err
	}

	err := db.conn.Exec(ctx, `
		INSERT INTO comments (post_id, id, author, text, date, avatar)
		VALUES (?, ?, ?, ?, ?, ?)`,
		postID, comment.ID, comment.Author, comment.Text, comment.Date, comment.Avatar)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter of a post
func (db *ClickHouseDB) IncrementViews(ctx context.Context, postID string) error {
	if err := db.ensurePost(ctx, postID); err != nil {
		return err
	}

	// post_views is a SummingMergeTree keyed by post_id; one row per increment
	err := db.conn.Exec(ctx,
		`INSERT INTO post_views (post_id, views) VALUES (?, 1)`, postID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// ListCategories returns the category set ordered by display position
func (db *ClickHouseDB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT id, name, icon FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	return db.conn.Close()
}

func (db *ClickHouseDB) listComments(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT id, author, text, date, avatar
		FROM comments WHERE post_id = ? ORDER BY date, id`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.Author, &comment.Text,
			&comment.Date, &comment.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (db *ClickHouseDB) ensurePost(ctx context.Context, postID string) error {
	row := db.conn.QueryRow(ctx, `SELECT count() FROM posts WHERE id = ?`, postID)

	var count uint64
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if count == 0 {
		return storage.ErrNotFound
	}
	return nil
}
