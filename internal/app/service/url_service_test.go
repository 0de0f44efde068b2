package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
)

type mockURLRepository struct {
	createFn        func(ctx context.Context, url *model.URL) error
	getByIDFn       func(ctx context.Context, id string) (*model.URL, error)
	getByShortFn    func(ctx context.Context, shortURL string) (*model.URL, error)
	listByUserFn    func(ctx context.Context, userID string) ([]model.URL, error)
	listShortURLsFn func(ctx context.Context) ([]string, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (m *mockURLRepository) Create(ctx context.Context, url *model.URL) error {
	if m.createFn != nil {
		return m.createFn(ctx, url)
	}
	return nil
}

func (m *mockURLRepository) GetByID(ctx context.Context, id string) (*model.URL, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrURLNotFound
}

func (m *mockURLRepository) GetByShortURL(ctx context.Context, shortURL string) (*model.URL, error) {
	if m.getByShortFn != nil {
		return m.getByShortFn(ctx, shortURL)
	}
	return nil, repository.ErrURLNotFound
}

func (m *mockURLRepository) ListByUser(ctx context.Context, userID string) ([]model.URL, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockURLRepository) ListShortURLs(ctx context.Context) ([]string, error) {
	if m.listShortURLsFn != nil {
		return m.listShortURLsFn(ctx)
	}
	return nil, nil
}

func (m *mockURLRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockClickRepository struct {
	createFn      func(ctx context.Context, click *model.Click) error
	listByURLFn   func(ctx context.Context, urlID string) ([]model.Click, error)
	listByURLsFn  func(ctx context.Context, urlIDs []string) ([]model.Click, error)
	deleteByURLFn func(ctx context.Context, urlID string) error
}

func (m *mockClickRepository) Create(ctx context.Context, click *model.Click) error {
	if m.createFn != nil {
		return m.createFn(ctx, click)
	}
	return nil
}

func (m *mockClickRepository) ListByURL(ctx context.Context, urlID string) ([]model.Click, error) {
	if m.listByURLFn != nil {
		return m.listByURLFn(ctx, urlID)
	}
	return nil, nil
}

func (m *mockClickRepository) ListByURLs(ctx context.Context, urlIDs []string) ([]model.Click, error) {
	if m.listByURLsFn != nil {
		return m.listByURLsFn(ctx, urlIDs)
	}
	return nil, nil
}

func (m *mockClickRepository) DeleteByURL(ctx context.Context, urlID string) error {
	if m.deleteByURLFn != nil {
		return m.deleteByURLFn(ctx, urlID)
	}
	return nil
}

var testOwner = &model.User{ID: "owner-1", Name: "a", Email: "a@x.com"}

func TestURLService_Create(t *testing.T) {
	repo := &mockURLRepository{
		createFn: func(ctx context.Context, url *model.URL) error {
			if url.ID == "" {
				t.Fatal("expected id to be set")
			}
			if url.UserID != testOwner.ID {
				t.Fatalf("expected owner %s, got %s", testOwner.ID, url.UserID)
			}
			return nil
		},
	}

	svc := NewURLService(repo, &mockClickRepository{}, nil, nil)
	url, err := svc.Create(context.Background(), testOwner, CreateURLInput{
		Title:       "t",
		OriginalURL: "https://example.com",
		ShortURL:    "abc",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if url.ShortURL != "abc" {
		t.Fatalf("expected short url abc, got %s", url.ShortURL)
	}
}

func TestURLService_CreateMissingFields(t *testing.T) {
	svc := NewURLService(&mockURLRepository{}, &mockClickRepository{}, nil, nil)

	cases := []CreateURLInput{
		{OriginalURL: "https://example.com", ShortURL: "abc"},
		{Title: "t", ShortURL: "abc"},
		{Title: "t", OriginalURL: "https://example.com"},
	}
	for _, input := range cases {
		if _, err := svc.Create(context.Background(), testOwner, input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", input, err)
		}
	}
}

func TestURLService_CreateRejectsBadOriginalURL(t *testing.T) {
	svc := NewURLService(&mockURLRepository{}, &mockClickRepository{}, nil, nil)

	for _, original := range []string{"not-a-url", "example.com", "javascript:alert(1)", "https://bad url"} {
		_, err := svc.Create(context.Background(), testOwner, CreateURLInput{
			Title: "t", OriginalURL: original, ShortURL: "abc",
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", original, err)
		}
	}

	for _, original := range []string{"https://example.com", "http://example.com/a?b=c", "ftp://files.example.com"} {
		_, err := svc.Create(context.Background(), testOwner, CreateURLInput{
			Title: "t", OriginalURL: original, ShortURL: "abc",
		})
		if err != nil {
			t.Fatalf("expected %q to be accepted, got %v", original, err)
		}
	}
}

func TestURLService_CreateShortURLTaken(t *testing.T) {
	repo := &mockURLRepository{
		getByShortFn: func(ctx context.Context, shortURL string) (*model.URL, error) {
			return &model.URL{ID: "existing", ShortURL: shortURL}, nil
		},
	}

	svc := NewURLService(repo, &mockClickRepository{}, nil, nil)
	_, err := svc.Create(context.Background(), testOwner, CreateURLInput{
		Title: "t", OriginalURL: "https://example.com", ShortURL: "abc",
	})
	if !errors.Is(err, ErrShortURLTaken) {
		t.Fatalf("expected ErrShortURLTaken, got %v", err)
	}
}

func TestURLService_CreateInsertRaceReportsConflict(t *testing.T) {
	// The pre-insert lookup misses, the insert hits the unique index, and
	// the post-insert lookup finds the winner.
	inserted := false
	repo := &mockURLRepository{
		getByShortFn: func(ctx context.Context, shortURL string) (*model.URL, error) {
			if inserted {
				return &model.URL{ID: "winner", ShortURL: shortURL}, nil
			}
			return nil, repository.ErrURLNotFound
		},
		createFn: func(ctx context.Context, url *model.URL) error {
			inserted = true
			return errors.New("duplicate key value violates unique constraint")
		},
	}

	svc := NewURLService(repo, &mockClickRepository{}, nil, nil)
	_, err := svc.Create(context.Background(), testOwner, CreateURLInput{
		Title: "t", OriginalURL: "https://example.com", ShortURL: "abc",
	})
	if !errors.Is(err, ErrShortURLTaken) {
		t.Fatalf("expected ErrShortURLTaken, got %v", err)
	}
}

func TestURLService_CreateWithFilterSkipsLookup(t *testing.T) {
	lookups := 0
	repo := &mockURLRepository{
		getByShortFn: func(ctx context.Context, shortURL string) (*model.URL, error) {
			lookups++
			return nil, repository.ErrURLNotFound
		},
	}

	filter, err := NewShortURLFilter(context.Background(), repo)
	if err != nil {
		t.Fatalf("NewShortURLFilter returned error: %v", err)
	}

	svc := NewURLService(repo, &mockClickRepository{}, filter, nil)
	if _, err := svc.Create(context.Background(), testOwner, CreateURLInput{
		Title: "t", OriginalURL: "https://example.com", ShortURL: "abc",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if lookups != 0 {
		t.Fatalf("expected the filter to short-circuit the lookup, saw %d lookups", lookups)
	}

	// The code is in the filter now, so a second create goes to the store.
	if _, err := svc.Create(context.Background(), testOwner, CreateURLInput{
		Title: "t", OriginalURL: "https://example.com", ShortURL: "abc",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if lookups == 0 {
		t.Fatal("expected the second create to consult the store")
	}
}

func TestURLService_GetOwnership(t *testing.T) {
	repo := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: "someone-else"}, nil
		},
	}

	svc := NewURLService(repo, &mockClickRepository{}, nil, nil)
	if _, err := svc.Get(context.Background(), testOwner, "url-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestURLService_GetNotFoundBeforeOwnership(t *testing.T) {
	svc := NewURLService(&mockURLRepository{}, &mockClickRepository{}, nil, nil)

	if _, err := svc.Get(context.Background(), testOwner, "missing"); !errors.Is(err, repository.ErrURLNotFound) {
		t.Fatalf("expected ErrURLNotFound, got %v", err)
	}
}

func TestURLService_DeleteCascadesToClicks(t *testing.T) {
	urlDeleted := false
	clicksDeleted := ""
	repo := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: testOwner.ID}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			urlDeleted = true
			return nil
		},
	}
	clicks := &mockClickRepository{
		deleteByURLFn: func(ctx context.Context, urlID string) error {
			clicksDeleted = urlID
			return nil
		},
	}

	svc := NewURLService(repo, clicks, nil, nil)
	if err := svc.Delete(context.Background(), testOwner, "url-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !urlDeleted {
		t.Fatal("expected the url to be deleted")
	}
	if clicksDeleted != "url-1" {
		t.Fatalf("expected clicks of url-1 to be deleted, got %q", clicksDeleted)
	}
}

func TestURLService_DeleteSurvivesClickCleanupFailure(t *testing.T) {
	repo := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: testOwner.ID}, nil
		},
	}
	clicks := &mockClickRepository{
		deleteByURLFn: func(ctx context.Context, urlID string) error {
			return errors.New("store unavailable")
		},
	}

	svc := NewURLService(repo, clicks, nil, nil)
	if err := svc.Delete(context.Background(), testOwner, "url-1"); err != nil {
		t.Fatalf("expected the url delete to succeed regardless, got %v", err)
	}
}

func TestURLService_DeleteOwnership(t *testing.T) {
	deleted := false
	repo := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: "someone-else"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	svc := NewURLService(repo, &mockClickRepository{}, nil, nil)
	if err := svc.Delete(context.Background(), testOwner, "url-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if deleted {
		t.Fatal("delete must not run for a foreign url")
	}
}

func TestURLService_ResolveNotFound(t *testing.T) {
	svc := NewURLService(&mockURLRepository{}, &mockClickRepository{}, nil, nil)

	if _, err := svc.Resolve(context.Background(), "missing"); !errors.Is(err, repository.ErrURLNotFound) {
		t.Fatalf("expected ErrURLNotFound, got %v", err)
	}
}
