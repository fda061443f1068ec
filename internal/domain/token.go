package domain

import (
	"context"
	"time"
)

// AccessToken is an opaque bearer credential bound to one user. A user may
// hold several live tokens at once; logout revokes all of them in bulk.
// No expiry is recorded, but CreatedAt is kept so lazy expiry can be added
// later without a migration.
type AccessToken struct {
	Token     string    `gorm:"primaryKey;size:64" json:"-"`
	UserID    string    `gorm:"type:varchar(32);index;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (AccessToken) TableName() string { return "access_tokens" }

type TokenRepository interface {
	Create(ctx context.Context, t *AccessToken) error
	FindByToken(ctx context.Context, token string) (*AccessToken, error)
	// DeleteByUser removes every token of the user in a single statement,
	// so a concurrent login's insert either lands before the delete (and is
	// revoked with the rest) or after it (and survives intact).
	DeleteByUser(ctx context.Context, userID string) error
}
