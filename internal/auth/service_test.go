package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/apperr"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/models"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/store"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, hashedPw, avatar string) (*models.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, store.ErrConflict
	}
	u := &models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Password:       hashedPw,
		ProfilePicture: avatar,
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, email, hashedPw string) error {
	u, ok := f.byEmail[email]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hashedPw
	return nil
}

func (f *fakeUserStore) UpdateAvatar(_ context.Context, id, avatar string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.ProfilePicture = avatar
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) ListUsers(context.Context) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for _, u := range f.byEmail {
		out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

type fakeVerifier struct {
	claims *GoogleClaims
	err    error
}

func (f *fakeVerifier) Verify(context.Context, string) (*GoogleClaims, error) {
	return f.claims, f.err
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{})

	u, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, models.DefaultAvatar, u.ProfilePicture)
	require.Len(t, users.byEmail, 1)

	// The stored hash is never the plaintext.
	require.NotEqual(t, "pw1", users.byEmail["ann@x.com"].Password)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService(newFakeUserStore(), &fakeVerifier{})

	for _, args := range [][3]string{
		{"", "ann@x.com", "pw1"},
		{"Ann", "", "pw1"},
		{"Ann", "ann@x.com", ""},
	} {
		_, err := svc.Register(context.Background(), args[0], args[1], args[2])
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{})

	first, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "ann@x.com", "pw2")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The existing record is untouched.
	require.Len(t, users.byEmail, 1)
	require.Equal(t, first.ID, users.byEmail["ann@x.com"].ID)
	require.Equal(t, "Ann", users.byEmail["ann@x.com"].Name)
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{})

	registered, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)

	logged, err := svc.Login(context.Background(), "ann@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, logged.ID)

	_, err = svc.Login(context.Background(), "ann@x.com", "wrong")
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "nobody@x.com", "pw1")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "", "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{claims: &GoogleClaims{
		Email: "g@x.com", Name: "Gee", Picture: "https://lh3.example/pic.jpg",
	}})

	u, err := svc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, "Gee", u.Name)
	require.Equal(t, "https://lh3.example/pic.jpg", u.ProfilePicture)

	// The placeholder password is unusable for password login.
	_, err = svc.Login(context.Background(), "g@x.com", "defaultPassword")
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	_, err = svc.Login(context.Background(), "g@x.com", "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGoogleLoginBackfillsDefaultAvatarOnly(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{claims: &GoogleClaims{
		Email: "ann@x.com", Name: "Ann", Picture: "https://lh3.example/ann.jpg",
	}})

	registered, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)

	// Still on the registration default: backfilled.
	u, err := svc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)
	require.Equal(t, "https://lh3.example/ann.jpg", u.ProfilePicture)

	// A chosen avatar is never overwritten.
	_, err = users.UpdateAvatar(context.Background(), registered.ID, "uploads/123-me.png")
	require.NoError(t, err)
	svc = NewService(users, &fakeVerifier{claims: &GoogleClaims{
		Email: "ann@x.com", Name: "Ann", Picture: "https://lh3.example/other.jpg",
	}})
	u, err = svc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, "uploads/123-me.png", u.ProfilePicture)
}

func TestGoogleLoginUpstreamFailure(t *testing.T) {
	svc := NewService(newFakeUserStore(), &fakeVerifier{err: errors.New("bad token")})

	_, err := svc.GoogleLogin(context.Background(), "token")
	require.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestResetPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{})

	registered, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "nobody@x.com", "pw2")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.ResetPassword(context.Background(), "", "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, svc.ResetPassword(context.Background(), "ann@x.com", "pw2"))

	_, err = svc.Login(context.Background(), "ann@x.com", "pw1")
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	logged, err := svc.Login(context.Background(), "ann@x.com", "pw2")
	require.NoError(t, err)
	require.Equal(t, registered.ID, logged.ID)
}

func TestListUsersExcludesHashes(t *testing.T) {
	users := newFakeUserStore()
	svc := NewService(users, &fakeVerifier{})

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Bob", "bob@x.com", "pw2")
	require.NoError(t, err)

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
}
