package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw, avatar string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, hashedPw string) error
	UpdateAvatar(ctx context.Context, id, avatar string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

// TokenVerifier validates an external OAuth ID token and extracts the profile
// claims. The production implementation is GoogleVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleClaims, error)
}

// GoogleClaims is the subset of the ID token payload we use.
type GoogleClaims struct {
	Email   string
	Name    string
	Picture string
}

// Service implements registration, login and password reset.
type Service struct {
	users    UserStore
	verifier TokenVerifier
}

func NewService(users UserStore, verifier TokenVerifier) *Service {
	return &Service{users: users, verifier: verifier}
}

// Register creates a new user with a hashed password and the default avatar.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("Please provide all the fields")
	}

	// The database has a unique index on email, but check first so a duplicate
	// registration gets a clean conflict instead of a constraint violation.
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("User already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Server("Server error", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	user, err := s.users.CreateUser(ctx, name, email, string(hashed), models.DefaultAvatar)
	if errors.Is(err, store.ErrConflict) {
		// Lost the race to a concurrent registration.
		return nil, apperr.Conflict("User already exists")
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return user, nil
}

// Login checks the password against the stored hash.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("Please provide email and password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Auth("Invalid password")
	}
	return user, nil
}

// GoogleLogin verifies the ID token and signs the user in, creating the
// account on first login. OAuth accounts get a random placeholder password
// hash so they can never be signed into via the password path.
func (s *Service) GoogleLogin(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, apperr.Upstream("Google login/signup failed", err)
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrNotFound) {
		placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Server("Server error", err)
		}
		avatar := claims.Picture
		if avatar == "" {
			avatar = models.DefaultAvatar
		}
		user, err := s.users.CreateUser(ctx, claims.Name, claims.Email, string(placeholder), avatar)
		if err != nil {
			return nil, apperr.Server("Server error", err)
		}
		return user, nil
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	// Backfill the avatar only while the user still has the registration
	// default; a picture the user chose is never overwritten.
	if avatarAbsent(user.ProfilePicture) && claims.Picture != "" {
		user, err = s.users.UpdateAvatar(ctx, user.ID, claims.Picture)
		if err != nil {
			return nil, apperr.Server("Server error", err)
		}
	}
	return user, nil
}

func avatarAbsent(avatar string) bool {
	return avatar == "" || avatar == models.DefaultAvatar
}

// ResetPassword overwrites the stored hash. There is deliberately no
// old-password check; the route matches the original API.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return apperr.Validation("Please provide email and new password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Server("Server error", err)
	}

	err = s.users.UpdatePassword(ctx, email, string(hashed))
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Server("Server error", err)
	}
	return nil
}

// ListUsers returns every registered user without password hashes.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return users, nil
}

// GetUser resolves a user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return user, nil
}
