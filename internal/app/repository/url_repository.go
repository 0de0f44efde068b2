package repository

import (
	"context"
	"errors"

	"github.com/cliplink/cliplink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrURLNotFound signals that the requested short URL does not exist.
	ErrURLNotFound = errors.New("url not found")
)

// URLRepository defines the data access contract for short URLs.
type URLRepository interface {
	Create(ctx context.Context, url *model.URL) error
	GetByID(ctx context.Context, id string) (*model.URL, error)
	GetByShortURL(ctx context.Context, shortURL string) (*model.URL, error)
	ListByUser(ctx context.Context, userID string) ([]model.URL, error)
	ListShortURLs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type urlRepository struct {
	db *gorm.DB
}

// NewURLRepository returns a GORM-backed URLRepository.
func NewURLRepository(db *gorm.DB) URLRepository {
	return &urlRepository{db: db}
}

func (r *urlRepository) Create(ctx context.Context, url *model.URL) error {
	return r.db.WithContext(ctx).Create(url).Error
}

func (r *urlRepository) GetByID(ctx context.Context, id string) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrURLNotFound
		}
		return nil, err
	}
	return &url, nil
}

func (r *urlRepository) GetByShortURL(ctx context.Context, shortURL string) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).Where("short_url = ?", shortURL).First(&url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrURLNotFound
		}
		return nil, err
	}
	return &url, nil
}

func (r *urlRepository) ListByUser(ctx context.Context, userID string) ([]model.URL, error) {
	var result []model.URL
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ListShortURLs returns every short code in the store. Used once at startup
// to seed the in-memory existence filter.
func (r *urlRepository) ListShortURLs(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&model.URL{}).
		Pluck("short_url", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *urlRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.URL{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrURLNotFound
	}
	return nil
}
