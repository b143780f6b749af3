package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/models"
	"github.com/sarcolor/backend/internal/repository/inmemory"
)

func newTestService(t *testing.T) (*Service, *inmemory.UserRepo) {
	t.Helper()

	repo := inmemory.NewUserRepo()
	s, err := NewService(Config{SecretKey: "test-secret"}, repo)
	require.NoError(t, err, "auth service should be created without errors")

	return s, repo
}

func registerUser(t *testing.T, s *Service, ctx context.Context) models.User {
	t.Helper()

	user, err := s.Register(ctx, "alice", "alice@x.com", "pw123")
	require.NoError(t, err)
	return user
}

func Test_NewService(t *testing.T) {
	t.Parallel()

	t.Run("nil repo fails", func(t *testing.T) {
		_, err := NewService(Config{SecretKey: "key"}, nil)
		require.Error(t, err)
	})

	t.Run("empty secret fails", func(t *testing.T) {
		_, err := NewService(Config{}, inmemory.NewUserRepo())
		require.Error(t, err)
	})
}

func Test_Service_Register(t *testing.T) {
	t.Parallel()

	t.Run("register ok", func(t *testing.T) {
		s, _ := newTestService(t)

		user, err := s.Register(t.Context(), "alice", "alice@x.com", "pw123")

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@x.com", user.Email)
		assert.True(t, user.IsActive, "new users start active")
		assert.NotEmpty(t, user.HashedPassword)
		assert.NotEqual(t, "pw123", user.HashedPassword, "password must be stored hashed")
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		_, err := s.Register(t.Context(), "alice", "other@x.com", "pw123")
		require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		_, err := s.Register(t.Context(), "bob", "alice@x.com", "pw123")
		require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})

	t.Run("username match is case sensitive", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		_, err := s.Register(t.Context(), "Alice", "other@x.com", "pw123")
		require.NoError(t, err, "different-cased username is a different user")
	})
}

func Test_Service_Login(t *testing.T) {
	t.Parallel()

	t.Run("login ok issues distinct pair", func(t *testing.T) {
		s, _ := newTestService(t)
		user := registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")

		require.NoError(t, err)
		assert.NotEmpty(t, pair.Access.Value)
		assert.NotEmpty(t, pair.Refresh.Value)
		assert.NotEqual(t, pair.Access.Value, pair.Refresh.Value)

		accessClaims, err := s.codec.Verify(pair.Access.Value)
		require.NoError(t, err)
		assert.Equal(t, models.TokenKindAccess, accessClaims.Kind)

		refreshClaims, err := s.codec.Verify(pair.Refresh.Value)
		require.NoError(t, err)
		assert.Equal(t, models.TokenKindRefresh, refreshClaims.Kind)

		gotID, err := accessClaims.UserID()
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotID)
	})

	t.Run("wrong password and unknown username yield the same error", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		_, errWrongPassword := s.Login(t.Context(), "alice", "not-the-password")
		_, errUnknownUser := s.Login(t.Context(), "nobody", "pw123")

		require.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
		require.ErrorIs(t, errUnknownUser, apperrors.ErrInvalidCredentials)
	})

	t.Run("inactive user rejected with dedicated error", func(t *testing.T) {
		s, repo := newTestService(t)
		user := registerUser(t, s, t.Context())

		_, err := repo.SetUserActive(t.Context(), user.ID, false)
		require.NoError(t, err)

		_, err = s.Login(t.Context(), "alice", "pw123")
		require.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}

func Test_Service_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("refresh rotates pair", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		rotated, err := s.Refresh(t.Context(), pair.Refresh.Value)

		require.NoError(t, err)
		assert.NotEqual(t, pair.Access.Value, rotated.Access.Value, "access token should rotate")
		assert.NotEqual(t, pair.Refresh.Value, rotated.Refresh.Value, "refresh token should rotate")
	})

	t.Run("old refresh token stays valid after rotation", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		rotated, err := s.Refresh(t.Context(), pair.Refresh.Value)
		require.NoError(t, err)

		// Rotation does not revoke: both tokens mint new pairs until expiry
		_, err = s.Refresh(t.Context(), pair.Refresh.Value)
		require.NoError(t, err, "first refresh token should still work")

		_, err = s.Refresh(t.Context(), rotated.Refresh.Value)
		require.NoError(t, err, "rotated refresh token should work")
	})

	t.Run("access token rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		_, err = s.Refresh(t.Context(), pair.Access.Value)
		require.ErrorIs(t, err, apperrors.ErrWrongTokenKind)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.Refresh(t.Context(), "garbage")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired refresh token rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		user := registerUser(t, s, t.Context())

		expired, err := s.codec.Issue(user.ID, models.TokenKindRefresh, -1*time.Minute)
		require.NoError(t, err)

		_, err = s.Refresh(t.Context(), expired.Value)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		s, _ := newTestService(t)

		orphan, err := s.codec.Issue(uuid.New(), models.TokenKindRefresh, time.Hour)
		require.NoError(t, err)

		_, err = s.Refresh(t.Context(), orphan.Value)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("inactive subject rejected", func(t *testing.T) {
		s, repo := newTestService(t)
		user := registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		_, err = repo.SetUserActive(t.Context(), user.ID, false)
		require.NoError(t, err)

		_, err = s.Refresh(t.Context(), pair.Refresh.Value)
		require.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}

func Test_Service_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("resolve principal ok", func(t *testing.T) {
		s, _ := newTestService(t)
		user := registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		principal, err := s.Authenticate(t.Context(), "Bearer "+pair.Access.Value)

		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.ID)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, "alice@x.com", principal.Email)
		assert.True(t, principal.IsActive)
	})

	t.Run("missing or malformed header rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		// No scheme, lowercase scheme, scheme without token, wrong scheme
		headers := []string{
			"",
			pair.Access.Value,
			"bearer " + pair.Access.Value,
			"Bearer",
			"Basic dXNlcjpwYXNz",
		}
		for _, header := range headers {
			_, err := s.Authenticate(t.Context(), header)
			require.ErrorIs(t, err, apperrors.ErrAuthHeaderMissing, "header %q should be rejected", header)
		}
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.Authenticate(t.Context(), "Bearer garbage")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("refresh token never authenticates a request", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		_, err = s.Authenticate(t.Context(), "Bearer "+pair.Refresh.Value)
		require.ErrorIs(t, err, apperrors.ErrWrongTokenKind)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		s, _ := newTestService(t)

		orphan, err := s.codec.Issue(uuid.New(), models.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		_, err = s.Authenticate(t.Context(), "Bearer "+orphan.Value)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("deactivation blocks valid tokens", func(t *testing.T) {
		s, repo := newTestService(t)
		user := registerUser(t, s, t.Context())

		pair, err := s.Login(t.Context(), "alice", "pw123")
		require.NoError(t, err)

		_, err = repo.SetUserActive(t.Context(), user.ID, false)
		require.NoError(t, err)

		// The token still cryptographically verifies, only account state blocks access
		_, err = s.Authenticate(t.Context(), "Bearer "+pair.Access.Value)
		require.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}
