package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/httpx"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/middleware"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc      *Service
	sessions *SessionStore
	log      *zap.Logger
}

func NewHandler(svc *Service, sessions *SessionStore, log *zap.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, log: log}
}

func publicUser(u *models.User) *models.User {
	out := *u
	out.ProfilePicture = models.NormalizePath(out.ProfilePicture)
	return &out
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"user": publicUser(user),
	})
}

// Login authenticates a user and creates a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	h.startSession(w, r, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"user":    publicUser(user),
		"message": "Login successful",
	})
}

// GoogleLogin signs a user in with a Google ID token, creating the account on
// first login.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	user, err := h.svc.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	h.startSession(w, r, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"user":    publicUser(user),
		"message": "Google login/signup successful",
	})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	sid, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		// The login itself succeeded; log and move on without a cookie.
		h.log.Error("session create failed", zap.Error(err))
		return
	}
	SetCookie(w, sid)
}

// ResetPassword overwrites the password hash for the given email.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		httpx.Error(w, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}

// ListUsers returns all registered users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Error(w, h.log, apperr.Auth("Not authenticated"))
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, publicUser(user))
}
