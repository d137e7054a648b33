package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password,notnull" json:"-"`
	GivenName    string    `bun:"given_name,notnull" json:"given_name"`
	Surname      string    `bun:"surname,notnull" json:"surname"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// SessionToken is one live session in the registry. Token is the uuid
// embedded in the bearer claim; deleting the row revokes the session.
// UpdatedAt doubles as the last-seen timestamp.
type SessionToken struct {
	bun.BaseModel `bun:"table:user_tokens,alias:tok"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Token     uuid.UUID `bun:"token,notnull,unique,type:uuid" json:"-"`
	Agent     string    `bun:"agent,notnull" json:"agent"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
