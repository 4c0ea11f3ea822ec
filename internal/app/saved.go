package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"homescape/internal/domain"
)

// SavedService manages a client's saved listings. Without a backing store
// every list is empty and writes are rejected.
type SavedService struct {
	store domain.SavedStore
	q     *QueryService
}

func NewSavedService(store domain.SavedStore, q *QueryService) *SavedService {
	return &SavedService{store: store, q: q}
}

var ErrSavedUnavailable = errors.New("saved list has no backing store")

// List resolves saved IDs to listings, skipping ones that no longer exist.
func (s *SavedService) List(ctx context.Context, clientID string) ([]domain.Property, error) {
	if s.store == nil {
		return []domain.Property{}, nil
	}
	ids, err := s.store.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(ids))
	for _, id := range ids {
		p, err := s.q.GetProperty(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Int64("id", id).Str("client", clientID).Msg("saved listing no longer exists")
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SavedService) Save(ctx context.Context, clientID string, id int64) error {
	if s.store == nil {
		return ErrSavedUnavailable
	}
	if _, err := s.q.GetProperty(ctx, id); err != nil {
		return err
	}
	return s.store.Add(ctx, clientID, id)
}

func (s *SavedService) Remove(ctx context.Context, clientID string, id int64) error {
	if s.store == nil {
		return ErrSavedUnavailable
	}
	return s.store.Remove(ctx, clientID, id)
}
