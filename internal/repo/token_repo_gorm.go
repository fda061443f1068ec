package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"renewal-tracker/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepo) FindByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	var t domain.AccessToken
	err := r.db.WithContext(ctx).First(&t, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

// DeleteByUser is one statement: the row-level locks it takes serialize it
// against a concurrent login inserting into the same user's token set.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.AccessToken{}).Error
}
