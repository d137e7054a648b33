package tracker

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/paging"
)

// Trackers is the tracker repository.
type Trackers interface {
	ByID(ctx context.Context, id int64) (*Tracker, error)
	Create(ctx context.Context, t *Tracker) (*Tracker, error)
	ListByUser(ctx context.Context, ownerID int64, q paging.ListQuery) ([]*Tracker, error)
	CountByUser(ctx context.Context, ownerID int64, q paging.ListQuery) (int, error)
}

// Pings is the ping repository. Reads are intentionally unscoped; the
// collection is shared between the account holders of a deployment.
type Pings interface {
	Create(ctx context.Context, p *Ping) (*Ping, error)
	List(ctx context.Context, q paging.ListQuery) ([]*Ping, error)
	Count(ctx context.Context, q paging.ListQuery) (int, error)
}

type trackers struct {
	db *bun.DB
}

type pings struct {
	db *bun.DB
}

var (
	_ Trackers = (*trackers)(nil)
	_ Pings    = (*pings)(nil)
)

func NewTrackersRepository(db *bun.DB) Trackers {
	return &trackers{db: db}
}

func NewPingsRepository(db *bun.DB) Pings {
	return &pings{db: db}
}

var trackerSortColumns = map[string]string{
	"id":         "trk.id",
	"name":       "trk.name",
	"created_at": "trk.created_at",
	"updated_at": "trk.updated_at",
}

var pingSortColumns = map[string]string{
	"id":         "png.id",
	"tracker_id": "png.tracker_id",
	"created_at": "png.created_at",
	"updated_at": "png.updated_at",
}

func (r *trackers) ByID(ctx context.Context, id int64) (*Tracker, error) {
	t := &Tracker{}
	err := r.db.NewSelect().
		Model(t).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("tracker not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "tracker lookup failed")
	}
	return t, nil
}

func (r *trackers) Create(ctx context.Context, t *Tracker) (*Tracker, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create tracker")
	}
	return t, nil
}

func (r *trackers) ListByUser(ctx context.Context, ownerID int64, q paging.ListQuery) ([]*Tracker, error) {
	var out []*Tracker

	sel := r.db.NewSelect().
		Model(&out).
		Where("?TableAlias.user_id = ?", ownerID)
	if q.Q != "" {
		sel = sel.Where("?TableAlias.name LIKE ?", "%"+q.Q+"%")
	}
	sel = q.Order(sel, trackerSortColumns, "trk.updated_at")
	sel = q.Page(sel)

	if err := sel.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list trackers")
	}
	return out, nil
}

func (r *trackers) CountByUser(ctx context.Context, ownerID int64, q paging.ListQuery) (int, error) {
	sel := r.db.NewSelect().
		Model((*Tracker)(nil)).
		Where("?TableAlias.user_id = ?", ownerID)
	if q.Q != "" {
		sel = sel.Where("?TableAlias.name LIKE ?", "%"+q.Q+"%")
	}

	n, err := sel.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count trackers")
	}
	return n, nil
}

func (r *pings) Create(ctx context.Context, p *Ping) (*Ping, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(p).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create ping")
	}
	return p, nil
}

func (r *pings) List(ctx context.Context, q paging.ListQuery) ([]*Ping, error) {
	var out []*Ping

	sel := r.filter(r.db.NewSelect().Model(&out), q)
	sel = q.Order(sel, pingSortColumns, "png.updated_at")
	sel = q.Page(sel)

	if err := sel.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list pings")
	}
	return out, nil
}

func (r *pings) Count(ctx context.Context, q paging.ListQuery) (int, error) {
	n, err := r.filter(r.db.NewSelect().Model((*Ping)(nil)), q).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count pings")
	}
	return n, nil
}

// filter matches the free text term against the numeric id columns, same as
// the original collection filter.
func (r *pings) filter(sel *bun.SelectQuery, q paging.ListQuery) *bun.SelectQuery {
	if q.Q == "" {
		return sel
	}
	id, err := strconv.ParseInt(q.Q, 10, 64)
	if err != nil {
		// Non numeric terms cannot match an id column.
		return sel.Where("1 = 0")
	}
	return sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
		return g.Where("?TableAlias.id = ?", id).
			WhereOr("?TableAlias.tracker_id = ?", id)
	})
}
