package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the account repository.
type Users interface {
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByIDAndEmail(ctx context.Context, id int64, email string) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (r *users) ByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookup(err)
	}
	return user, nil
}

func (r *users) ByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookup(err)
	}
	return user, nil
}

func (r *users) ByIDAndEmail(ctx context.Context, id int64, email string) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookup(err)
	}
	return user, nil
}

func (r *users) EmailTaken(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}
	return exists, nil
}

func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	return r.CreateTx(ctx, r.db, user)
}

func (r *users) CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	user.Email = normalizeEmail(user.Email)
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}
	return user, nil
}

func (r *users) Update(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	user.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(user).
		Column("email", "given_name", "surname", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	return requireRows(res, "user")
}

func (r *users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password")
	}

	return requireRows(res, "user")
}

func (r *users) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	return requireRows(res, "user")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func wrapUserLookup(err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return NotFound("user")
	}
	return errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
}

func requireRows(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read affected rows")
	}
	if n == 0 {
		return NotFound(resource)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
