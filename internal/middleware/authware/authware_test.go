package authware_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/middleware/authware"
	"github.com/dracker/dracker/internal/middleware/csrf"
	"github.com/dracker/dracker/internal/migrations"
)

type fixture struct {
	app    *fiber.App
	repo   auth.RepositoryManager
	tokens *auth.TokenService
	user   *auth.User
}

var dbSeq int

func setup(t *testing.T) *fixture {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:authware%d?mode=memory&cache=shared", dbSeq)
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	repo := auth.NewRepositoryManager(db)
	tokens := auth.NewTokenService(&auth.KeyPair{Private: priv, Public: pub})

	hash, err := auth.HashPassword("superSecret1")
	require.NoError(t, err)
	user, err := repo.Users().Create(ctx, &auth.User{
		Email:        "pepe.rone@example.com",
		PasswordHash: hash,
		GivenName:    "Pepe",
		Surname:      "Rone",
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) && richErr.Code >= http.StatusBadRequest {
				return c.Status(richErr.Code).JSON(fiber.Map{"msg": richErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": err.Error()})
		},
	})

	protected := app.Group("", authware.New(authware.Config{
		Tokens:   tokens,
		Sessions: repo.Sessions(),
		Logger:   auth.NewNopLogger(),
	}))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		claims, ok := authware.ClaimsFromCtx(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(claims.UserID)
	})
	protected.Post("/mutate", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return &fixture{app: app, repo: repo, tokens: tokens, user: user}
}

// session registers a row and signs a matching bearer token.
func (f *fixture) session(t *testing.T) (string, uuid.UUID) {
	t.Helper()

	sessionID := uuid.New()
	_, err := f.repo.Sessions().Create(context.Background(), f.user.ID, sessionID, "test")
	require.NoError(t, err)

	token, err := f.tokens.SignAuthClaims(auth.NewAuthClaims(uint64(f.user.ID), sessionID, time.Hour))
	require.NoError(t, err)

	return token, sessionID
}

func TestMiddlewareBearerHeader(t *testing.T) {
	f := setup(t)
	token, _ := f.session(t)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	res, err := f.app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestMiddlewareCookieFallback(t *testing.T) {
	f := setup(t)
	token, _ := f.session(t)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: authware.CookieName, Value: token})

	res, err := f.app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestMiddlewareRejections(t *testing.T) {
	f := setup(t)

	validToken, revokedSession := f.session(t)
	require.NoError(t, f.repo.Sessions().Delete(context.Background(), revokedSession, f.user.ID))

	expired, err := f.tokens.SignAuthClaims(auth.NewAuthClaims(uint64(f.user.ID), uuid.New(), -time.Minute))
	require.NoError(t, err)

	unregistered, err := f.tokens.SignAuthClaims(auth.NewAuthClaims(uint64(f.user.ID), uuid.New(), time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "No credentials", header: ""},
		{name: "Wrong scheme", header: "Basic abc"},
		{name: "Malformed token", header: "Bearer nope"},
		{name: "Expired token", header: "Bearer " + expired},
		{name: "Valid signature but revoked session", header: "Bearer " + validToken},
		{name: "Valid signature never registered", header: "Bearer " + unregistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			res, err := f.app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		})
	}
}

func TestMiddlewareCSRFOnMutations(t *testing.T) {
	f := setup(t)
	token, _ := f.session(t)

	t.Run("GET skips the CSRF guard", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		res, err := f.app.Test(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("POST without CSRF pair is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/mutate", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		res, err := f.app.Test(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("POST with matching pair passes", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/mutate", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		req.Header.Set(csrf.TokenName, "tok-1")
		req.AddCookie(&http.Cookie{Name: csrf.TokenName, Value: "tok-1"})

		res, err := f.app.Test(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("Token failure outranks CSRF failure", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/mutate", nil)

		res, err := f.app.Test(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestMiddlewareTouchesSession(t *testing.T) {
	f := setup(t)
	token, sessionID := f.session(t)

	before, err := f.repo.Sessions().FindActive(context.Background(), sessionID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	res, err := f.app.Test(req)
	require.NoError(t, err)
	res.Body.Close()

	after, err := f.repo.Sessions().FindActive(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}
