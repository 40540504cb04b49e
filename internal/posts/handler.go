package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/httpx"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
)

const maxUploadSize = 32 << 20

// MediaStore defines the interface for uploaded image storage.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Handler holds post HTTP handlers.
type Handler struct {
	svc   *Service
	media MediaStore
	log   *zap.Logger
}

func NewHandler(svc *Service, media MediaStore, log *zap.Logger) *Handler {
	return &Handler{svc: svc, media: media, log: log}
}

// Create handles the multipart post form: userId, text and an optional image.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid multipart form"))
		return
	}

	userID := r.FormValue("userId")
	text := r.FormValue("text")

	imagePath, err := h.storeImage(r, "image")
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), userID, text, imagePath)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"post":    post,
		"message": "Post created successfully!",
	})
}

// storeImage persists the named multipart file, if present, and returns its
// public path under /uploads. Keys are timestamped so filenames never collide.
func (h *Handler) storeImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", apperr.Validation("Invalid image upload")
	}
	defer file.Close()

	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), path.Base(models.NormalizePath(header.Filename)))
	contentType := header.Header.Get("Content-Type")
	if err := h.media.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		return "", apperr.Server("Server error", err)
	}
	return "uploads/" + key, nil
}

// Like toggles the caller's membership in the post's like set.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	post, err := h.svc.ToggleLike(r.Context(), chi.URLParam(r, "postId"), req.UserID)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"post":    post,
		"message": "Post liked/unliked successfully.",
	})
}

// Save toggles the caller's membership in the post's save set.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	post, err := h.svc.ToggleSave(r.Context(), chi.URLParam(r, "postId"), req.UserID)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, post)
}

// List returns the full feed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	feed, err := h.svc.ListFeed(r.Context())
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, feed)
}

// UserPosts returns posts authored by the given user.
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListUserPosts(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// SavedPosts returns posts the given user has saved.
func (h *Handler) SavedPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListSavedPosts(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
