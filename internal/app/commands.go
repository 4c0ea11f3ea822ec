package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"homescape/internal/domain"
)

type CommandService struct {
	repo  domain.PropertyRepository
	cache domain.Cache
}

func NewCommandService(r domain.PropertyRepository, cache domain.Cache) *CommandService {
	return &CommandService{repo: r, cache: cache}
}

func (s *CommandService) Create(ctx context.Context, draft domain.Property) (domain.Property, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Property{}, err
	}
	p, err := s.repo.Create(ctx, draft)
	if err != nil {
		return domain.Property{}, err
	}
	s.invalidate(ctx, p.ID)
	log.Info().Int64("id", p.ID).Msg("property created")
	return p, nil
}

func (s *CommandService) Update(ctx context.Context, id int64, patch domain.PropertyPatch) (domain.Property, error) {
	if patch.Empty() {
		return domain.Property{}, fmt.Errorf("%w: no fields to update", domain.ErrInvalid)
	}
	if err := validatePatch(patch); err != nil {
		return domain.Property{}, err
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Property{}, err
	}
	s.invalidate(ctx, id)
	log.Info().Int64("id", id).Msg("property updated")
	return p, nil
}

func (s *CommandService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.invalidate(ctx, id)
		log.Info().Int64("id", id).Msg("property deleted")
	}
	return ok, nil
}

// invalidate drops the list snapshot and the single-listing entry.
func (s *CommandService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, keyAllProperties)
	_ = s.cache.Del(ctx, propertyKey(id))
}

func validateDraft(p domain.Property) error {
	var bad []string
	if strings.TrimSpace(p.Title) == "" {
		bad = append(bad, "title is required")
	}
	if p.Price < 0 {
		bad = append(bad, "price must be non-negative")
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.SquareFeet < 0 {
		bad = append(bad, "counts must be non-negative")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalid, strings.Join(bad, "; "))
	}
	return nil
}

func validatePatch(pt domain.PropertyPatch) error {
	var bad []string
	if pt.Price != nil && *pt.Price < 0 {
		bad = append(bad, "price must be non-negative")
	}
	if (pt.Bedrooms != nil && *pt.Bedrooms < 0) ||
		(pt.Bathrooms != nil && *pt.Bathrooms < 0) ||
		(pt.SquareFeet != nil && *pt.SquareFeet < 0) {
		bad = append(bad, "counts must be non-negative")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalid, strings.Join(bad, "; "))
	}
	return nil
}
