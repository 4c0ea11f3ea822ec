package app_test

import (
	"context"
	"errors"
	"testing"

	"homescape/internal/app"
	"homescape/internal/domain"
)

type memSaved struct{ ids map[string][]int64 }

func (m *memSaved) List(ctx context.Context, clientID string) ([]int64, error) {
	return append([]int64(nil), m.ids[clientID]...), nil
}
func (m *memSaved) Add(ctx context.Context, clientID string, id int64) error {
	if m.ids == nil {
		m.ids = map[string][]int64{}
	}
	m.ids[clientID] = append([]int64{id}, m.ids[clientID]...)
	return nil
}
func (m *memSaved) Remove(ctx context.Context, clientID string, id int64) error {
	cur := m.ids[clientID]
	for i, x := range cur {
		if x == id {
			m.ids[clientID] = append(cur[:i], cur[i+1:]...)
			break
		}
	}
	return nil
}

func TestSaved_WithoutStoreIsEmpty(t *testing.T) {
	q := app.NewQueryService(&fakeRepo{items: listings()}, nil, 0)
	s := app.NewSavedService(nil, q)

	got, err := s.List(context.Background(), "c1")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
	if err := s.Save(context.Background(), "c1", 1); !errors.Is(err, app.ErrSavedUnavailable) {
		t.Fatalf("expected ErrSavedUnavailable, got %v", err)
	}
}

func TestSaved_SaveListRemove(t *testing.T) {
	repo := &fakeRepo{items: listings()}
	q := app.NewQueryService(repo, nil, 0)
	store := &memSaved{}
	s := app.NewSavedService(store, q)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("saving an unknown listing should fail, got %v", err)
	}
	_ = s.Save(ctx, "c1", 1)
	_ = s.Save(ctx, "c1", 3)

	got, err := s.List(ctx, "c1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("unexpected saved list: %+v", got)
	}

	// a listing deleted after being saved is skipped
	_, _ = repo.Delete(ctx, 3)
	got, _ = s.List(ctx, "c1")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("deleted listing should be skipped: %+v", got)
	}

	_ = s.Remove(ctx, "c1", 1)
	got, _ = s.List(ctx, "c1")
	if len(got) != 0 {
		t.Fatalf("expected empty after remove: %+v", got)
	}
}
