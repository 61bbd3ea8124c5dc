package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogbot/internal/models"
	"blogbot/internal/storage"
)

// defaultAvatar is used for comments posted without a profile picture.
const defaultAvatar = "https://i.pravatar.cc/150"

// Summarizer produces a short summary of blog content. May fail; callers
// report the failure instead of inventing text.
type Summarizer interface {
	GenerateSummary(ctx context.Context, content string) (string, error)
}

// Server exposes the read side of the blog to the hosting UI
type Server struct {
	store      storage.Storage
	summarizer Summarizer
	logger     *zap.Logger
}

// NewServer creates the HTTP API server
func NewServer(store storage.Storage, summarizer Summarizer, logger *zap.Logger) *Server {
	return &Server{
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// RegisterRoutes registers API routes on the provided mux
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/posts", s.handlePosts)
	mux.HandleFunc("/api/posts/", s.handlePost)
	mux.HandleFunc("/api/categories", s.handleCategories)
}

// handlePosts serves GET /api/posts with optional category and q filters
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	posts, err := s.store.ListPosts(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error("Failed to list posts", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	s.writeJSON(w, http.StatusOK, posts)
}

// handlePost routes /api/posts/{id}, /api/posts/{id}/comments and
// /api/posts/{id}/summary
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
		s.getPost(w, r, id)
	case "comments":
		s.addComment(w, r, id)
	case "summary":
		s.summarizePost(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("Failed to get post", zap.String("post_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Reading a post counts as a view. The counter bump is best-effort and
	// the response reflects it without a second round trip.
	if err := s.store.IncrementViews(r.Context(), id); err != nil {
		s.logger.Warn("Failed to increment views", zap.String("post_id", id), zap.Error(err))
	} else {
		post.Views++
	}

	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.Author == "" || payload.Text == "" {
		http.Error(w, "author and text are required", http.StatusBadRequest)
		return
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		Author: payload.Author,
		Text:   payload.Text,
		Date:   time.Now().Format("2006-01-02"),
		Avatar: defaultAvatar,
	}

	err := s.store.AddComment(r.Context(), id, comment)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("Failed to add comment", zap.String("post_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) summarizePost(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("Failed to get post for summary", zap.String("post_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	summary, err := s.summarizer.GenerateSummary(r.Context(), post.Content)
	if err != nil {
		s.logger.Warn("Summary generation failed", zap.String("post_id", id), zap.Error(err))
		http.Error(w, "summary unavailable", http.StatusBadGateway)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleCategories serves GET /api/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	s.writeJSON(w, http.StatusOK, categories)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
