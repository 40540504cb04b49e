// Package uploads serves profile-picture uploads and read-only access to
// stored media under /uploads.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/httpx"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/store"
)

const maxUploadSize = 32 << 20

// UserStore is the slice of the identity store needed for avatar updates.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*models.User, error)
}

// MediaStore defines the interface for media blob storage.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler holds the upload HTTP handlers.
type Handler struct {
	users UserStore
	media MediaStore
	log   *zap.Logger
}

func NewHandler(users UserStore, media MediaStore, log *zap.Logger) *Handler {
	return &Handler{users: users, media: media, log: log}
}

// UploadProfilePicture stores the multipart profilePicture file and points the
// user's avatar at it.
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid multipart form"))
		return
	}

	userID := r.FormValue("userId")
	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid input data. Missing userId or file"))
		return
	}
	defer file.Close()

	if userID == "" {
		httpx.Error(w, h.log, apperr.Validation("Invalid input data. Missing userId or file"))
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid userId format"))
		return
	}

	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), path.Base(models.NormalizePath(header.Filename)))
	if err := h.media.Upload(r.Context(), key, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		httpx.Error(w, h.log, apperr.Server("Server error", err))
		return
	}

	user, err := h.users.UpdateAvatar(r.Context(), userID, "uploads/"+key)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, h.log, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		httpx.Error(w, h.log, apperr.Server("Server error", err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Profile picture uploaded successfully!",
	})
}

// GetProfile returns the user's profile including the avatar path.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), chi.URLParam(r, "userId"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, h.log, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		httpx.Error(w, h.log, apperr.Server("Server error", err))
		return
	}

	user.ProfilePicture = models.NormalizePath(user.ProfilePicture)
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "User profile fetched successfully!",
	})
}

// Serve streams a stored media object read-only.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	data, contentType, err := h.media.Download(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, h.log, apperr.NotFound("File not found"))
		return
	}
	if err != nil {
		httpx.Error(w, h.log, apperr.Server("Server error", err))
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Write(data)
}
