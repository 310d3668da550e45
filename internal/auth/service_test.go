package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patchwork-body/the-booking-system/internal/config"
	"github.com/patchwork-body/the-booking-system/internal/model"
	"github.com/patchwork-body/the-booking-system/internal/repository"
	"github.com/patchwork-body/the-booking-system/internal/utils"
)

// fakeUserStore keeps users and profile rows in memory.
type fakeUserStore struct {
	seq      int
	byEmail  map[string]*repository.UserWithProfiles
	byID     map[string]*repository.UserWithProfiles
	profiles int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]*repository.UserWithProfiles{},
		byID:    map[string]*repository.UserWithProfiles{},
	}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrEmailExists
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	row := &repository.UserWithProfiles{User: *u}
	f.byEmail[u.Email] = row
	f.byID[u.ID] = row
	return nil
}

func (f *fakeUserStore) CreateOwnerProfile(_ context.Context, userID string) (string, error) {
	f.profiles++
	id := fmt.Sprintf("owner-%d", f.profiles)
	f.byID[userID].OwnerID = id
	return id, nil
}

func (f *fakeUserStore) CreateGuestProfile(_ context.Context, userID string) (string, error) {
	f.profiles++
	id := fmt.Sprintf("guest-%d", f.profiles)
	f.byID[userID].GuestID = id
	return id, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*repository.UserWithProfiles, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*repository.UserWithProfiles, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

// fakeTokenStore keeps refresh sessions in memory.
type fakeTokenStore struct {
	seq  int
	rows map[string]string // token id -> user id
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]string{}}
}

func (f *fakeTokenStore) Create(_ context.Context, userID string) (*model.Token, error) {
	f.seq++
	id := fmt.Sprintf("token-%d", f.seq)
	f.rows[id] = userID
	return &model.Token{ID: id, UserID: userID}, nil
}

func (f *fakeTokenStore) Exists(_ context.Context, id, userID string) (bool, error) {
	uid, ok := f.rows[id]
	return ok && uid == userID, nil
}

func (f *fakeTokenStore) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTTLMin:     60,
		RefreshTTLDays:   7,
		BcryptCost:       4, // min cost keeps the suite fast
	}
}

func newTestService() (*Service, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	return NewService(testConfig(), users, tokens), users, tokens
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns a fresh 32 character secret", func(t *testing.T) {
		s, users, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleOwner)
		require.NoError(t, err)
		require.Len(t, secret, 32)

		u, err := users.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		require.NotEqual(t, secret, u.PasswordHash, "secret must be stored hashed")
		require.True(t, utils.VerifySecret(u.PasswordHash, secret))
	})

	t.Run("creates the matching profile row", func(t *testing.T) {
		s, users, _ := newTestService()

		_, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleOwner)
		require.NoError(t, err)
		_, err = s.Register(ctx, "Bob", "bob@example.com", nil, model.RoleGuest)
		require.NoError(t, err)

		owner, _ := users.GetByEmail(ctx, "ann@example.com")
		require.NotEmpty(t, owner.OwnerID)
		require.Empty(t, owner.GuestID)

		guest, _ := users.GetByEmail(ctx, "bob@example.com")
		require.NotEmpty(t, guest.GuestID)
		require.Empty(t, guest.OwnerID)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		s, _, _ := newTestService()

		_, err := s.Register(ctx, "Eve", "eve@example.com", nil, "ADMIN")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate email surfaces untyped", func(t *testing.T) {
		s, _, _ := newTestService()

		_, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)

		_, err = s.Register(ctx, "Ann Again", "ann@example.com", nil, model.RoleGuest)
		require.ErrorIs(t, err, repository.ErrEmailExists)
		var authErr *Error
		require.NotErrorAs(t, err, &authErr, "duplicate email is not a credential error")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("register then login roundtrip", func(t *testing.T) {
		s, _, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleOwner)
		require.NoError(t, err)

		pair, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := utils.ParseAccessToken("test-access-secret", pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, model.RoleOwner, claims.Role)
		require.NotEmpty(t, claims.OwnerID)
		require.Empty(t, claims.GuestID)
	})

	t.Run("unknown email", func(t *testing.T) {
		s, _, _ := newTestService()

		_, err := s.Login(ctx, "ghost@example.com", "whatever")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong secret", func(t *testing.T) {
		s, _, _ := newTestService()

		_, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)

		_, err = s.Login(ctx, "ann@example.com", "not-the-secret")
		require.ErrorIs(t, err, ErrWrongSecret)
	})

	t.Run("each login opens its own session", func(t *testing.T) {
		s, _, tokens := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)

		_, err = s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)
		_, err = s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)
		require.Len(t, tokens.rows, 2)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mints a new access token", func(t *testing.T) {
		s, _, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)
		pair, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)

		access, err := s.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := utils.ParseAccessToken("test-access-secret", access)
		require.NoError(t, err)
		require.Equal(t, model.RoleGuest, claims.Role)
		require.NotEmpty(t, claims.GuestID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		s, _, _ := newTestService()

		_, err := s.Refresh(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("refresh works until revoked", func(t *testing.T) {
		s, _, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)
		pair, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)

		_, err = s.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		require.NoError(t, s.Revoke(ctx, pair.RefreshToken))

		_, err = s.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("revoking one session leaves others alive", func(t *testing.T) {
		s, _, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)
		first, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)
		second, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)

		require.NoError(t, s.Revoke(ctx, first.RefreshToken))

		_, err = s.Refresh(ctx, first.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
		_, err = s.Refresh(ctx, second.RefreshToken)
		require.NoError(t, err)
	})
}

func TestRevoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		s, _, _ := newTestService()

		secret, err := s.Register(ctx, "Ann", "ann@example.com", nil, model.RoleGuest)
		require.NoError(t, err)
		pair, err := s.Login(ctx, "ann@example.com", secret)
		require.NoError(t, err)

		require.NoError(t, s.Revoke(ctx, pair.RefreshToken))
		require.NoError(t, s.Revoke(ctx, pair.RefreshToken))
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		s, _, _ := newTestService()
		require.ErrorIs(t, s.Revoke(ctx, "not.a.jwt"), ErrInvalidRefreshToken)
	})
}
