package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"homescape/internal/domain"
)

// SeedTarget writes one listing into a durable store.
type SeedTarget func(ctx context.Context, p domain.Property) error

type SeedReport struct {
	Written int
	Failed  int
}

// Seed pushes every listing through target using at most workers concurrent
// writes. Individual failures are logged and counted; only cancellation of
// ctx aborts the run.
func Seed(ctx context.Context, ps []domain.Property, target SeedTarget, workers int) (SeedReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg              sync.WaitGroup
		written, failed atomic.Int64
	)

	for _, p := range ps {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return SeedReport{Written: int(written.Load()), Failed: int(failed.Load())}, err
		}

		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			if err := target(ctx, p); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", p.ID).Str("title", p.Title).Err(err).Msg("seed failed")
				return
			}
			written.Add(1)
			log.Debug().Int64("id", p.ID).Msg("seed ok")
		}(p)
	}

	wg.Wait()
	return SeedReport{Written: int(written.Load()), Failed: int(failed.Load())}, nil
}
