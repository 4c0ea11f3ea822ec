// Package notify collects user-facing notifications so clients can poll
// them, and mirrors each one to the structured log.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"homescape/internal/adapters/observability"
	"homescape/internal/domain"
)

const DefaultCapacity = 100

// Feed is a bounded, newest-first notification buffer. It satisfies
// domain.Notifier.
type Feed struct {
	mu    sync.Mutex
	items []domain.Notification // ring
	next  int
	full  bool
	now   func() time.Time
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{items: make([]domain.Notification, capacity), now: time.Now}
}

func (f *Feed) Notify(ctx context.Context, level domain.NotificationLevel, msg string) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: f.now().UTC(),
	}

	f.mu.Lock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()

	observability.ObserveNotification(string(level))
	ev := log.Info()
	if level == domain.LevelError {
		ev = log.Warn()
	}
	ev.Str("notification_id", n.ID).Str("notify_level", string(level)).Msg(msg)
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	size := f.next
	if f.full {
		size = len(f.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]domain.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}
