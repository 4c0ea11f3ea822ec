package app

import (
	"context"
	"fmt"
	"time"

	"homescape/internal/adapters/observability"
	"homescape/internal/domain"
)

const keyAllProperties = "properties:all"

func propertyKey(id int64) string { return fmt.Sprintf("property:%d", id) }

type QueryService struct {
	repo     domain.PropertyRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read path. c may be nil to disable caching.
func NewQueryService(r domain.PropertyRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// Browse loads the full collection and applies the filter criteria.
func (s *QueryService) Browse(ctx context.Context, c domain.FilterCriteria) ([]domain.Property, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := domain.FilterProperties(all, c)
	observability.ObserveFilter(len(out))
	return out, nil
}

func (s *QueryService) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	key := propertyKey(id)
	var p domain.Property
	if s.cacheOn() {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if s.cacheOn() {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p, nil
}

func (s *QueryService) all(ctx context.Context) ([]domain.Property, error) {
	var ps []domain.Property
	if s.cacheOn() {
		if ok, _ := s.cache.Get(ctx, keyAllProperties, &ps); ok {
			return ps, nil
		}
	}
	ps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// an empty load may be a swallowed failure; don't pin it in the cache
	if s.cacheOn() && len(ps) > 0 {
		_ = s.cache.Set(ctx, keyAllProperties, ps, int(s.cacheTTL.Seconds()))
	}
	return ps, nil
}

func (s *QueryService) cacheOn() bool { return s.cache != nil && s.cacheTTL > 0 }
