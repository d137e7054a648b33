package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/dracker/dracker/internal/paging"
)

// Sessions is the revocable session registry. Bearer tokens stay valid only
// while their row exists here; deleting a row is the revocation primitive.
type Sessions interface {
	Create(ctx context.Context, userID int64, sessionID uuid.UUID, agent string) (*SessionToken, error)
	FindActive(ctx context.Context, sessionID uuid.UUID) (*SessionToken, error)
	Touch(ctx context.Context, sessionID uuid.UUID) error
	Delete(ctx context.Context, sessionID uuid.UUID, ownerID int64) error
	DeleteByID(ctx context.Context, id int64, ownerID int64) error
	DeleteAllExcept(ctx context.Context, ownerID int64, keep uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, ownerID int64, q paging.ListQuery) ([]*SessionToken, error)
	CountByUser(ctx context.Context, ownerID int64, q paging.ListQuery) (int, error)
}

type sessions struct {
	db *bun.DB
}

var _ Sessions = (*sessions)(nil)

func NewSessionsRepository(db *bun.DB) Sessions {
	return &sessions{db: db}
}

// sessionSortColumns whitelists client-facing sort keys.
var sessionSortColumns = map[string]string{
	"id":         "tok.id",
	"agent":      "tok.agent",
	"created_at": "tok.created_at",
	"updated_at": "tok.updated_at",
}

func (r *sessions) Create(ctx context.Context, userID int64, sessionID uuid.UUID, agent string) (*SessionToken, error) {
	if agent == "" {
		agent = "Unknown"
	}

	now := time.Now()
	token := &SessionToken{
		UserID:    userID,
		Token:     sessionID,
		Agent:     agent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().Model(token).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "session id already registered").
				WithCode(errors.CodeConflict)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to register session")
	}

	return token, nil
}

func (r *sessions) FindActive(ctx context.Context, sessionID uuid.UUID) (*SessionToken, error) {
	token := &SessionToken{}
	err := r.db.NewSelect().
		Model(token).
		Where("?TableAlias.token = ?", sessionID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, NotFound("session")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "session lookup failed")
	}
	return token, nil
}

// Touch bumps the last-seen timestamp. Callers treat a failure here as
// non-fatal; an authenticated request must not die because of it.
func (r *sessions) Touch(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*SessionToken)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("token = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to touch session")
	}
	return nil
}

// Delete removes a session only when it belongs to ownerID. A uuid that
// exists under another user still reports not found.
func (r *sessions) Delete(ctx context.Context, sessionID uuid.UUID, ownerID int64) error {
	res, err := r.db.NewDelete().
		Model((*SessionToken)(nil)).
		Where("token = ?", sessionID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete session")
	}
	return requireRows(res, "session")
}

// DeleteByID removes a session by registry row id, owner scoped.
func (r *sessions) DeleteByID(ctx context.Context, id int64, ownerID int64) error {
	res, err := r.db.NewDelete().
		Model((*SessionToken)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete session")
	}
	return requireRows(res, "session")
}

// DeleteAllExcept revokes every session of a user but the one identified by
// keep, returning the number of sessions dropped.
func (r *sessions) DeleteAllExcept(ctx context.Context, ownerID int64, keep uuid.UUID) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*SessionToken)(nil)).
		Where("user_id = ?", ownerID).
		Where("token != ?", keep).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to delete sessions")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to read affected rows")
	}
	return n, nil
}

func (r *sessions) ListByUser(ctx context.Context, ownerID int64, q paging.ListQuery) ([]*SessionToken, error) {
	var tokens []*SessionToken

	sel := r.db.NewSelect().
		Model(&tokens).
		Where("?TableAlias.user_id = ?", ownerID)
	sel = r.filter(sel, q)
	sel = q.Order(sel, sessionSortColumns, "tok.id")
	sel = q.Page(sel)

	if err := sel.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list sessions")
	}
	return tokens, nil
}

func (r *sessions) CountByUser(ctx context.Context, ownerID int64, q paging.ListQuery) (int, error) {
	sel := r.db.NewSelect().
		Model((*SessionToken)(nil)).
		Where("?TableAlias.user_id = ?", ownerID)
	sel = r.filter(sel, q)

	n, err := sel.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count sessions")
	}
	return n, nil
}

// filter matches the free text term against the row id or the agent string.
func (r *sessions) filter(sel *bun.SelectQuery, q paging.ListQuery) *bun.SelectQuery {
	if q.Q == "" {
		return sel
	}
	return sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
		if id, err := strconv.ParseInt(q.Q, 10, 64); err == nil {
			g = g.Where("?TableAlias.id = ?", id)
		}
		return g.WhereOr("?TableAlias.agent LIKE ?", "%"+q.Q+"%")
	})
}
