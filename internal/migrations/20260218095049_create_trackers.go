package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/tracker"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*tracker.Tracker)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}

		for _, col := range []string{"name", "created_at", "updated_at"} {
			if _, err := db.NewCreateIndex().
				Model((*tracker.Tracker)(nil)).
				Index("idx_trackers_" + col).
				Column(col).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*tracker.Tracker)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
