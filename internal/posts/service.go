package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/store"
)

// PostStore defines the interface for post persistence.
type PostStore interface {
	InsertPost(ctx context.Context, post *models.Post) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error)
	ListPostsSavedBy(ctx context.Context, userID string) ([]models.Post, error)
	ToggleMember(ctx context.Context, postID, field, userID string) (*models.Post, error)
}

// UserStore is the slice of the identity store the engine needs for author
// resolution and feed joins.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Service implements post creation, like/save toggling and the feed queries.
type Service struct {
	posts PostStore
	users UserStore
}

func NewService(posts PostStore, users UserStore) *Service {
	return &Service{posts: posts, users: users}
}

// CreatePost stores a new post with empty like/save sets. The author's current
// name is denormalized onto the post and does not track later renames.
func (s *Service) CreatePost(ctx context.Context, authorID, text, imagePath string) (*models.Post, error) {
	user, err := s.users.GetUserByID(ctx, authorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	post := &models.Post{
		UserID:   user.ID,
		Username: user.Name,
		Text:     text,
		Image:    models.NormalizePath(imagePath),
		Likes:    []string{},
		Saves:    []string{},
	}
	created, err := s.posts.InsertPost(ctx, post)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return created, nil
}

// ToggleLike flips userID's membership in the post's like set.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.toggle(ctx, postID, "likes", userID)
}

// ToggleSave flips userID's membership in the post's save set.
func (s *Service) ToggleSave(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.toggle(ctx, postID, "saves", userID)
}

func (s *Service) toggle(ctx context.Context, postID, field, userID string) (*models.Post, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperr.Validation("Invalid userId")
	}
	post, err := s.posts.ToggleMember(ctx, postID, field, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Post not found")
	}
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return post, nil
}

// ListFeed returns all posts newest first with author info joined in.
func (s *Service) ListFeed(ctx context.Context) ([]models.Post, error) {
	list, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return s.joinAuthors(ctx, list)
}

// ListUserPosts returns the given author's posts newest first.
func (s *Service) ListUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	list, err := s.posts.ListPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return normalize(list), nil
}

// ListSavedPosts returns the posts whose save set contains userID, newest
// first, with author info joined in.
func (s *Service) ListSavedPosts(ctx context.Context, userID string) ([]models.Post, error) {
	list, err := s.posts.ListPostsSavedBy(ctx, userID)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return s.joinAuthors(ctx, list)
}

// joinAuthors attaches each author's current name and avatar in one identity
// store round trip. Authors deleted out from under their posts simply get no
// join; the denormalized username still renders.
func (s *Service) joinAuthors(ctx context.Context, list []models.Post) ([]models.Post, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, p := range list {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	authors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	list = normalize(list)
	for i := range list {
		if u, ok := authors[list[i].UserID]; ok {
			list[i].Author = &models.Author{
				Name:           u.Name,
				ProfilePicture: models.NormalizePath(u.ProfilePicture),
			}
		}
	}
	return list, nil
}

func normalize(list []models.Post) []models.Post {
	if list == nil {
		list = []models.Post{}
	}
	for i := range list {
		list[i].Image = models.NormalizePath(list[i].Image)
	}
	return list
}
