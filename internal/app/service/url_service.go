package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// originalURLPattern is the format check applied at creation. Only the
// scheme and the absence of spaces/quotes are enforced.
var originalURLPattern = regexp.MustCompile(`^(ftp|http|https)://[^ "]+$`)

// URLService applies the business rules on top of the URL store:
// validation, short-code uniqueness, ownership, and the click cascade on
// delete. Every non-public operation takes the authenticated user
// explicitly.
type URLService struct {
	urls   repository.URLRepository
	clicks repository.ClickRepository
	filter *ShortURLFilter
	logger *zap.Logger
}

// NewURLService returns a URL service backed by the given stores. The
// filter is optional; without it every uniqueness check queries the store.
func NewURLService(urls repository.URLRepository, clicks repository.ClickRepository, filter *ShortURLFilter, logger *zap.Logger) *URLService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLService{urls: urls, clicks: clicks, filter: filter, logger: logger}
}

// CreateURLInput captures data required to create a short URL.
type CreateURLInput struct {
	Title       string
	OriginalURL string
	ShortURL    string
}

// Create validates the input, checks short-code uniqueness, and persists
// the URL owned by the given user.
func (s *URLService) Create(ctx context.Context, owner *model.User, input CreateURLInput) (*model.URL, error) {
	if input.Title == "" || input.OriginalURL == "" || input.ShortURL == "" {
		return nil, fmt.Errorf("%w: title, original_url and short_url are required", ErrValidation)
	}
	if !originalURLPattern.MatchString(input.OriginalURL) {
		return nil, fmt.Errorf("%w: original_url must be an ftp, http or https URL", ErrValidation)
	}

	taken, err := s.shortURLTaken(ctx, input.ShortURL)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrShortURLTaken
	}

	url := &model.URL{
		ID:          uuid.New().String(),
		UserID:      owner.ID,
		Title:       input.Title,
		OriginalURL: input.OriginalURL,
		ShortURL:    input.ShortURL,
	}
	if err := s.urls.Create(ctx, url); err != nil {
		// The unique index is the backstop for the check-then-insert race.
		if _, lookupErr := s.urls.GetByShortURL(ctx, input.ShortURL); lookupErr == nil {
			return nil, ErrShortURLTaken
		}
		return nil, err
	}

	if s.filter != nil {
		s.filter.Add(url.ShortURL)
	}

	s.logger.Info("short url created",
		zap.String("id", url.ID),
		zap.String("short_url", url.ShortURL),
		zap.String("user_id", owner.ID))
	return url, nil
}

// List returns the URLs owned by the caller.
func (s *URLService) List(ctx context.Context, owner *model.User) ([]model.URL, error) {
	return s.urls.ListByUser(ctx, owner.ID)
}

// Get returns a single URL. Existence is checked before ownership, so a
// missing record reads as not-found rather than forbidden.
func (s *URLService) Get(ctx context.Context, owner *model.User, id string) (*model.URL, error) {
	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if url.UserID != owner.ID {
		return nil, ErrNotOwner
	}
	return url, nil
}

// Delete removes an owned URL and cascades to its click records. The two
// deletes are independent store operations; a failed click cleanup is
// logged but does not undo the URL delete.
func (s *URLService) Delete(ctx context.Context, owner *model.User, id string) error {
	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if url.UserID != owner.ID {
		return ErrNotOwner
	}

	if err := s.urls.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.clicks.DeleteByURL(ctx, id); err != nil {
		s.logger.Error("failed to delete clicks for removed url",
			zap.String("url_id", id), zap.Error(err))
	}

	s.logger.Info("short url deleted", zap.String("id", id), zap.String("user_id", owner.ID))
	return nil
}

// Resolve looks up a URL by short code. Public: no caller identity needed.
func (s *URLService) Resolve(ctx context.Context, shortURL string) (*model.URL, error) {
	return s.urls.GetByShortURL(ctx, shortURL)
}

func (s *URLService) shortURLTaken(ctx context.Context, shortURL string) (bool, error) {
	if s.filter != nil && !s.filter.MayExist(shortURL) {
		return false, nil
	}

	_, err := s.urls.GetByShortURL(ctx, shortURL)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrURLNotFound) {
		return false, nil
	}
	return false, err
}
