package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/tracker"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*tracker.Ping)(nil)).
			IfNotExists().
			ForeignKey(`("tracker_id") REFERENCES "trackers" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}

		for _, col := range []string{"lat", "lon", "note", "created_at", "updated_at"} {
			if _, err := db.NewCreateIndex().
				Model((*tracker.Ping)(nil)).
				Index("idx_pings_" + col).
				Column(col).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*tracker.Ping)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
