package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blogbot/internal/models"
	"blogbot/internal/storage/stubs"
)

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, content string) (string, error) {
	return f.summary, f.err
}

func newTestServer(t *testing.T, summarizer Summarizer) (*httptest.Server, *stubs.MockDB) {
	t.Helper()

	db := stubs.NewMockDB()
	require.NoError(t, db.Initialize(context.Background()))
	require.NoError(t, db.AddPost(context.Background(), models.Post{
		ID:       "tg-100",
		Title:    "First Post",
		Content:  "Hello from the bot",
		Category: "tech",
		Date:     "2026-08-30",
		Hashtags: []string{"telegram", "auto"},
	}))

	mux := http.NewServeMux()
	NewServer(db, summarizer, zap.NewNop()).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, db
}

func getJSON(t *testing.T, url string, target interface{}) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp
}

func TestServer_ListPosts(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	var posts []models.Post
	resp := getJSON(t, server.URL+"/api/posts", &posts)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Len(t, posts, 1)
	assert.Equal(t, "tg-100", posts[0].ID)
}

func TestServer_ListPostsFiltered(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	var posts []models.Post
	getJSON(t, server.URL+"/api/posts?category=design", &posts)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	getJSON(t, server.URL+"/api/posts?q=hello", &posts)
	require.Len(t, posts, 1)

	getJSON(t, server.URL+"/api/posts?category=tech&q=nomatch", &posts)
	assert.Empty(t, posts)
}

func TestServer_GetPostCountsView(t *testing.T) {
	server, db := newTestServer(t, &fakeSummarizer{})

	var post models.Post
	resp := getJSON(t, server.URL+"/api/posts/tg-100", &post)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "First Post", post.Title)
	assert.Equal(t, uint64(1), post.Views)

	getJSON(t, server.URL+"/api/posts/tg-100", &post)
	assert.Equal(t, uint64(2), post.Views)

	stored, err := db.GetPost(context.Background(), "tg-100")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Views)
}

func TestServer_GetPostNotFound(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	resp := getJSON(t, server.URL+"/api/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_AddComment(t *testing.T) {
	server, db := newTestServer(t, &fakeSummarizer{})

	body := strings.NewReader(`{"author":"Reader","text":"Great read"}`)
	resp, err := http.Post(server.URL+"/api/posts/tg-100/comments", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "Reader", comment.Author)
	assert.Equal(t, "Great read", comment.Text)
	assert.Equal(t, defaultAvatar, comment.Avatar)

	stored, err := db.GetPost(context.Background(), "tg-100")
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
}

func TestServer_AddCommentValidation(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	testCases := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"missing author", "/api/posts/tg-100/comments", `{"text":"hi"}`, http.StatusBadRequest},
		{"missing text", "/api/posts/tg-100/comments", `{"author":"a"}`, http.StatusBadRequest},
		{"malformed json", "/api/posts/tg-100/comments", `{`, http.StatusBadRequest},
		{"unknown post", "/api/posts/missing/comments", `{"author":"a","text":"b"}`, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+tc.url, "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestServer_SummarizePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, _ := newTestServer(t, &fakeSummarizer{summary: "A short take."})

		resp, err := http.Post(server.URL+"/api/posts/tg-100/summary", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "A short take.", payload["summary"])
	})

	t.Run("generator failure maps to bad gateway", func(t *testing.T) {
		server, _ := newTestServer(t, &fakeSummarizer{err: errors.New("quota exceeded")})

		resp, err := http.Post(server.URL+"/api/posts/tg-100/summary", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("unknown post", func(t *testing.T) {
		server, _ := newTestServer(t, &fakeSummarizer{summary: "x"})

		resp, err := http.Post(server.URL+"/api/posts/missing/summary", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_ListCategories(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	var categories []models.Category
	resp := getJSON(t, server.URL+"/api/categories", &categories)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, categories, 6)
	assert.Equal(t, "all", categories[0].ID)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, &fakeSummarizer{})

	resp, err := http.Post(server.URL+"/api/posts", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/posts/tg-100/summary")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
