package auth_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/migrations"
	"github.com/dracker/dracker/internal/paging"
)

var dbSeq int

// setupDB opens a private in-memory database and runs the full migration
// set against it.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", dbSeq)

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	// Shared cache memory databases vanish when the last connection closes.
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

func testKeys(t *testing.T) *auth.KeyPair {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return &auth.KeyPair{Private: priv, Public: pub}
}

func seedUser(t *testing.T, repo auth.RepositoryManager, email, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := repo.Users().Create(context.Background(), &auth.User{
		Email:        email,
		PasswordHash: hash,
		GivenName:    "Pepe",
		Surname:      "Rone",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	return user
}

func listAll() paging.ListQuery {
	return paging.ListQuery{}
}

// loginSession registers a session row directly, bypassing Login.
func loginSession(t *testing.T, repo auth.RepositoryManager, user *auth.User) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := repo.Sessions().Create(context.Background(), user.ID, id, "test")
	require.NoError(t, err)
	return id
}

// mailRecorder captures dispatched mails so the fire-and-forget path can be
// asserted on.
type mailRecorder struct {
	mu      sync.Mutex
	welcome []string
	resets  []string
	links   []string
	done    chan struct{}
}

func newMailRecorder() *mailRecorder {
	return &mailRecorder{done: make(chan struct{}, 8)}
}

func (m *mailRecorder) SendWelcome(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	m.welcome = append(m.welcome, to)
	m.links = append(m.links, link)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func (m *mailRecorder) SendPasswordReset(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	m.resets = append(m.resets, to)
	m.links = append(m.links, link)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func (m *mailRecorder) welcomeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.welcome)
}

func (m *mailRecorder) resetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resets)
}

func (m *mailRecorder) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}
