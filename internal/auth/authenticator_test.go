package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracker/dracker/internal/auth"
)

func newAuthenticator(t *testing.T) (*auth.Authenticator, auth.RepositoryManager, *auth.TokenService) {
	t.Helper()

	db := setupDB(t)
	repo := auth.NewRepositoryManager(db)
	tokens := auth.NewTokenService(testKeys(t))

	return auth.NewAuthenticator(repo, tokens, auth.WithLogger(auth.NewNopLogger())), repo, tokens
}

func TestLogin(t *testing.T) {
	auther, repo, tokens := newAuthenticator(t)
	user := seedUser(t, repo, "pepe.rone@example.com", "superSecret1")

	ctx := context.Background()

	t.Run("Success mints a registered session", func(t *testing.T) {
		token, err := auther.Login(ctx, "pepe.rone@example.com", "superSecret1", "TestAgent/1.0")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := tokens.ValidateAuth(token)
		require.NoError(t, err)
		assert.Equal(t, uint64(user.ID), claims.UserID)
		assert.NotEqual(t, uuid.Nil, claims.SessionID)

		session, err := repo.Sessions().FindActive(ctx, claims.SessionID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, "TestAgent/1.0", session.Agent)
	})

	t.Run("Each login gets a distinct session", func(t *testing.T) {
		first, err := auther.Login(ctx, "pepe.rone@example.com", "superSecret1", "a")
		require.NoError(t, err)
		second, err := auther.Login(ctx, "pepe.rone@example.com", "superSecret1", "b")
		require.NoError(t, err)

		c1, err := tokens.ValidateAuth(first)
		require.NoError(t, err)
		c2, err := tokens.ValidateAuth(second)
		require.NoError(t, err)
		assert.NotEqual(t, c1.SessionID, c2.SessionID)
	})

	t.Run("Wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrong := auther.Login(ctx, "pepe.rone@example.com", "nope", "agent")
		_, errUnknown := auther.Login(ctx, "ghost@example.com", "nope", "agent")

		assert.ErrorIs(t, errWrong, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("Failed login registers no session", func(t *testing.T) {
		before, err := repo.Sessions().CountByUser(ctx, user.ID, listAll())
		require.NoError(t, err)

		_, err = auther.Login(ctx, "pepe.rone@example.com", "nope", "agent")
		require.Error(t, err)

		after, err := repo.Sessions().CountByUser(ctx, user.ID, listAll())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestLogout(t *testing.T) {
	auther, repo, tokens := newAuthenticator(t)
	user := seedUser(t, repo, "pepe.rone@example.com", "superSecret1")

	ctx := context.Background()

	token, err := auther.Login(ctx, "pepe.rone@example.com", "superSecret1", "agent")
	require.NoError(t, err)
	claims, err := tokens.ValidateAuth(token)
	require.NoError(t, err)

	require.NoError(t, auther.Logout(ctx, claims.SessionID, user.ID))

	// The signature is still valid but the registry row is gone.
	_, err = repo.Sessions().FindActive(ctx, claims.SessionID)
	require.Error(t, err)

	// Replaying the logout fails.
	err = auther.Logout(ctx, claims.SessionID, user.ID)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)
}

func TestLogoutRequiresOwnership(t *testing.T) {
	auther, repo, tokens := newAuthenticator(t)
	seedUser(t, repo, "owner@example.com", "superSecret1")
	other := seedUser(t, repo, "other@example.com", "superSecret1")

	ctx := context.Background()

	token, err := auther.Login(ctx, "owner@example.com", "superSecret1", "agent")
	require.NoError(t, err)
	claims, err := tokens.ValidateAuth(token)
	require.NoError(t, err)

	err = auther.Logout(ctx, claims.SessionID, other.ID)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)

	_, err = repo.Sessions().FindActive(ctx, claims.SessionID)
	assert.NoError(t, err)
}

func TestRevokeOtherSessions(t *testing.T) {
	auther, repo, tokens := newAuthenticator(t)
	user := seedUser(t, repo, "pepe.rone@example.com", "superSecret1")

	ctx := context.Background()

	var keep uuid.UUID
	for i := 0; i < 4; i++ {
		token, err := auther.Login(ctx, "pepe.rone@example.com", "superSecret1", "agent")
		require.NoError(t, err)
		claims, err := tokens.ValidateAuth(token)
		require.NoError(t, err)
		keep = claims.SessionID
	}

	n, err := auther.RevokeOtherSessions(ctx, user.ID, keep)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = repo.Sessions().FindActive(ctx, keep)
	assert.NoError(t, err)

	count, err := repo.Sessions().CountByUser(ctx, user.ID, listAll())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
