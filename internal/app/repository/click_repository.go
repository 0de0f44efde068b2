package repository

import (
	"context"

	"github.com/cliplink/cliplink/internal/app/model"
	"gorm.io/gorm"
)

// ClickRepository defines the data access contract for click records.
type ClickRepository interface {
	Create(ctx context.Context, click *model.Click) error
	ListByURL(ctx context.Context, urlID string) ([]model.Click, error)
	ListByURLs(ctx context.Context, urlIDs []string) ([]model.Click, error)
	DeleteByURL(ctx context.Context, urlID string) error
}

type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository returns a GORM-backed ClickRepository.
func NewClickRepository(db *gorm.DB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(ctx context.Context, click *model.Click) error {
	return r.db.WithContext(ctx).Create(click).Error
}

func (r *clickRepository) ListByURL(ctx context.Context, urlID string) ([]model.Click, error) {
	var result []model.Click
	if err := r.db.WithContext(ctx).
		Where("url_id = ?", urlID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *clickRepository) ListByURLs(ctx context.Context, urlIDs []string) ([]model.Click, error) {
	if len(urlIDs) == 0 {
		return []model.Click{}, nil
	}

	var result []model.Click
	if err := r.db.WithContext(ctx).
		Where("url_id IN ?", urlIDs).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *clickRepository) DeleteByURL(ctx context.Context, urlID string) error {
	return r.db.WithContext(ctx).Where("url_id = ?", urlID).Delete(&model.Click{}).Error
}
