package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
)

func TestClickService_Create(t *testing.T) {
	urls := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: testOwner.ID}, nil
		},
	}
	clicks := &mockClickRepository{
		createFn: func(ctx context.Context, click *model.Click) error {
			if click.ID == "" {
				t.Fatal("expected id to be set")
			}
			if click.URLID != "url-1" {
				t.Fatalf("expected url-1, got %s", click.URLID)
			}
			return nil
		},
	}

	svc := NewClickService(clicks, urls, nil)
	click, err := svc.Create(context.Background(), CreateClickInput{
		URLID: "url-1", City: "X", Country: "Y", Device: "Z",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if click.City != "X" || click.Country != "Y" || click.Device != "Z" {
		t.Fatal("click fields should be stored as supplied")
	}
}

func TestClickService_CreateRequiresURLID(t *testing.T) {
	svc := NewClickService(&mockClickRepository{}, &mockURLRepository{}, nil)

	_, err := svc.Create(context.Background(), CreateClickInput{City: "X"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClickService_CreateUnknownURL(t *testing.T) {
	svc := NewClickService(&mockClickRepository{}, &mockURLRepository{}, nil)

	_, err := svc.Create(context.Background(), CreateClickInput{URLID: "missing"})
	if !errors.Is(err, repository.ErrURLNotFound) {
		t.Fatalf("expected ErrURLNotFound, got %v", err)
	}
}

func TestClickService_ListForURLOwnership(t *testing.T) {
	urls := &mockURLRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.URL, error) {
			return &model.URL{ID: id, UserID: "someone-else"}, nil
		},
	}

	svc := NewClickService(&mockClickRepository{}, urls, nil)
	if _, err := svc.ListForURL(context.Background(), testOwner, "url-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestClickService_ListForURLNotFound(t *testing.T) {
	svc := NewClickService(&mockClickRepository{}, &mockURLRepository{}, nil)

	if _, err := svc.ListForURL(context.Background(), testOwner, "missing"); !errors.Is(err, repository.ErrURLNotFound) {
		t.Fatalf("expected ErrURLNotFound, got %v", err)
	}
}

func TestClickService_ListForOwnerFansOut(t *testing.T) {
	urls := &mockURLRepository{
		listByUserFn: func(ctx context.Context, userID string) ([]model.URL, error) {
			return []model.URL{{ID: "url-1"}, {ID: "url-2"}}, nil
		},
	}
	clicks := &mockClickRepository{
		listByURLsFn: func(ctx context.Context, urlIDs []string) ([]model.Click, error) {
			if len(urlIDs) != 2 || urlIDs[0] != "url-1" || urlIDs[1] != "url-2" {
				t.Fatalf("expected ids of both owned urls, got %v", urlIDs)
			}
			return []model.Click{{ID: "c1", URLID: "url-1"}, {ID: "c2", URLID: "url-2"}}, nil
		},
	}

	svc := NewClickService(clicks, urls, nil)
	list, err := svc.ListForOwner(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("ListForOwner returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 clicks, got %d", len(list))
	}
}

func TestClickService_ListForOwnerNoURLs(t *testing.T) {
	clicks := &mockClickRepository{
		listByURLsFn: func(ctx context.Context, urlIDs []string) ([]model.Click, error) {
			if len(urlIDs) != 0 {
				t.Fatalf("expected no ids, got %v", urlIDs)
			}
			return []model.Click{}, nil
		},
	}

	svc := NewClickService(clicks, &mockURLRepository{}, nil)
	list, err := svc.ListForOwner(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("ListForOwner returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty result, got %d clicks", len(list))
	}
}
