package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/auth"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*auth.SessionToken)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewCreateIndex().
			Model((*auth.SessionToken)(nil)).
			Index("idx_user_tokens_agent").
			Column("agent").
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*auth.SessionToken)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
