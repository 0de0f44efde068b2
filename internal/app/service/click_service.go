package service

import (
	"context"
	"fmt"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClickService records and reads per-visit analytics. Creation is public
// but requires an existing URL; reads are gated by ownership of the
// referenced URL, since clicks carry no owner of their own.
type ClickService struct {
	clicks repository.ClickRepository
	urls   repository.URLRepository
	logger *zap.Logger
}

// NewClickService returns a click service backed by the given stores.
func NewClickService(clicks repository.ClickRepository, urls repository.URLRepository, logger *zap.Logger) *ClickService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickService{clicks: clicks, urls: urls, logger: logger}
}

// CreateClickInput captures a single visit. City, country, and device are
// stored as supplied; only the URL reference is mandatory.
type CreateClickInput struct {
	URLID   string
	City    string
	Country string
	Device  string
}

// Create persists a visit record against an existing URL.
func (s *ClickService) Create(ctx context.Context, input CreateClickInput) (*model.Click, error) {
	if input.URLID == "" {
		return nil, fmt.Errorf("%w: urlId is required", ErrValidation)
	}

	if _, err := s.urls.GetByID(ctx, input.URLID); err != nil {
		return nil, err
	}

	click := &model.Click{
		ID:      uuid.New().String(),
		URLID:   input.URLID,
		City:    input.City,
		Country: input.Country,
		Device:  input.Device,
	}
	if err := s.clicks.Create(ctx, click); err != nil {
		return nil, err
	}

	s.logger.Debug("click recorded",
		zap.String("id", click.ID),
		zap.String("url_id", click.URLID))
	return click, nil
}

// ListForURL returns the clicks of a single URL owned by the caller.
// Existence is checked before ownership.
func (s *ClickService) ListForURL(ctx context.Context, owner *model.User, urlID string) ([]model.Click, error) {
	url, err := s.urls.GetByID(ctx, urlID)
	if err != nil {
		return nil, err
	}
	if url.UserID != owner.ID {
		return nil, ErrNotOwner
	}

	return s.clicks.ListByURL(ctx, urlID)
}

// ListForOwner returns every click across the caller's URLs by first
// listing the owned URL ids and then selecting their clicks.
func (s *ClickService) ListForOwner(ctx context.Context, owner *model.User) ([]model.Click, error) {
	urls, err := s.urls.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(urls))
	for i, url := range urls {
		ids[i] = url.ID
	}

	return s.clicks.ListByURLs(ctx, ids)
}
