// Package static is an in-memory PropertyRepository seeded from a bundled
// dataset. It is not durable and is meant for demos and tests.
package static

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"homescape/internal/domain"
)

//go:embed properties.json
var bundled []byte

// Dataset decodes the bundled listings.
func Dataset() ([]domain.Property, error) {
	return ReadDataset(bytes.NewReader(bundled))
}

// ReadDataset decodes a JSON array of listings in the bundled format.
func ReadDataset(r io.Reader) ([]domain.Property, error) {
	var ps []domain.Property
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ps, nil
}

type Repo struct {
	mu      sync.Mutex
	items   []domain.Property
	latency time.Duration
	now     func() time.Time
}

type Option func(*Repo)

// WithLatency delays every operation by d to mimic a network round trip.
func WithLatency(d time.Duration) Option { return func(r *Repo) { r.latency = d } }

// WithClock overrides the time source used for default listing dates.
func WithClock(now func() time.Time) Option { return func(r *Repo) { r.now = now } }

// New returns a repository owning a copy of seed.
func New(seed []domain.Property, opts ...Option) *Repo {
	r := &Repo{items: make([]domain.Property, 0, len(seed)), now: time.Now}
	for _, p := range seed {
		r.items = append(r.items, p.Clone())
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repo) GetAll(ctx context.Context) ([]domain.Property, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Property, len(r.items))
	for i, p := range r.items {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Property, error) {
	if err := r.wait(ctx); err != nil {
		return domain.Property{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return r.items[i].Clone(), nil
}

func (r *Repo) Create(ctx context.Context, draft domain.Property) (domain.Property, error) {
	if err := r.wait(ctx); err != nil {
		return domain.Property{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := draft.Clone()
	p.ID = r.nextID()
	if p.ListingDate == "" {
		p.ListingDate = r.now().UTC().Format(time.RFC3339)
	}
	if p.Status == "" {
		p.Status = domain.DefaultStatus
	}
	r.items = append(r.items, p)
	return p.Clone(), nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch domain.PropertyPatch) (domain.Property, error) {
	if err := r.wait(ctx); err != nil {
		return domain.Property{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	r.items[i] = patch.Apply(r.items[i])
	return r.items[i].Clone(), nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.wait(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return true, nil
}

// caller holds mu
func (r *Repo) indexOf(id int64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// caller holds mu
func (r *Repo) nextID() int64 {
	var top int64
	for _, p := range r.items {
		if p.ID > top {
			top = p.ID
		}
	}
	return top + 1
}

func (r *Repo) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
