package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"renewal-tracker/internal/domain"
)

type RenewalRepo struct{ db *gorm.DB }

func NewRenewalRepo(db *gorm.DB) *RenewalRepo { return &RenewalRepo{db: db} }

func (r *RenewalRepo) Create(ctx context.Context, ren *domain.Renewal) error {
	return r.db.WithContext(ctx).Create(ren).Error
}

func (r *RenewalRepo) FindByID(ctx context.Context, id string) (*domain.Renewal, error) {
	var ren domain.Renewal
	err := r.db.WithContext(ctx).First(&ren, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ren, err
}

func (r *RenewalRepo) List(ctx context.Context) ([]domain.Renewal, error) {
	var rens []domain.Renewal
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rens).Error
	return rens, err
}

func (r *RenewalRepo) ListByUser(ctx context.Context, userID string) ([]domain.Renewal, error) {
	var rens []domain.Renewal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rens).Error
	return rens, err
}

func (r *RenewalRepo) Update(ctx context.Context, ren *domain.Renewal) error {
	return r.db.WithContext(ctx).Save(ren).Error
}

func (r *RenewalRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Renewal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
