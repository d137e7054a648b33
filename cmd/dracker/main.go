// Command dracker runs the tracking API: migrations, Ed25519 key load, SMTP
// wiring and the fiber HTTP surface.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/dracker/dracker/internal/auth"
	"github.com/dracker/dracker/internal/config"
	"github.com/dracker/dracker/internal/httpd"
	"github.com/dracker/dracker/internal/mailer"
	"github.com/dracker/dracker/internal/migrations"
	"github.com/dracker/dracker/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("dracker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slogAdapter{
		l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := migrateUp(ctx, db, logger); err != nil {
		return err
	}

	keys, err := auth.LoadKeyPair(cfg.PrivateKeyFile, cfg.PublicKeyFile)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenService(keys, auth.WithTokenLogger(logger))
	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	var mail auth.MailDispatcher
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, mail delivery disabled")
		mail = mailer.LogOnly{Logger: logger}
	} else {
		mail, err = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		if err != nil {
			return err
		}
	}

	slugs, err := tracker.NewSlugCodec()
	if err != nil {
		return err
	}

	server := httpd.New(httpd.Config{
		Repo:     repo,
		Tokens:   tokens,
		Auther:   auth.NewAuthenticator(repo, tokens, auth.WithLogger(logger)),
		Signup:   auth.NewSignupHandler(repo, tokens, mail, cfg.SPAURL, logger),
		ResetIni: auth.NewInitializePasswordResetHandler(repo, tokens, mail, cfg.SPAURL, logger),
		ResetFin: auth.NewFinalizePasswordResetHandler(repo, tokens, logger),
		Trackers: tracker.NewTrackersRepository(db),
		Pings:    tracker.NewPingsRepository(db),
		Slugs:    slugs,
		Logger:   logger,
		Debug:    cfg.Debug,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received %s, shutting down", sig)
		return server.Shutdown()
	}
}

func migrateUp(ctx context.Context, db *bun.DB, logger auth.Logger) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if group.IsZero() {
		logger.Debug("database schema up to date")
	} else {
		logger.Info("migrated to %s", group)
	}
	return nil
}

// slogAdapter satisfies the domain Logger interface on top of slog.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Debug(format string, args ...any) { a.l.Debug(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Info(format string, args ...any)  { a.l.Info(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Warn(format string, args ...any)  { a.l.Warn(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Error(format string, args ...any) { a.l.Error(fmt.Sprintf(format, args...)) }
