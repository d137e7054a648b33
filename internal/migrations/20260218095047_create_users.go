package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/auth"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*auth.User)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		for _, col := range []string{"email", "created_at", "updated_at"} {
			if _, err := db.NewCreateIndex().
				Model((*auth.User)(nil)).
				Index("idx_users_" + col).
				Column(col).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*auth.User)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
