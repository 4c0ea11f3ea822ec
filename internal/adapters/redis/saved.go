package redisad

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SavedStore keeps each client's saved listings in a sorted set scored by
// save time, so List returns the most recent first.
type SavedStore struct {
	c   *redis.Client
	now func() time.Time
}

func NewSavedStore(c *redis.Client) *SavedStore { return &SavedStore{c: c, now: time.Now} }

func savedKey(clientID string) string { return "saved:" + clientID }

func (s *SavedStore) List(ctx context.Context, clientID string) ([]int64, error) {
	members, err := s.c.ZRevRange(ctx, savedKey(clientID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("saved member %q: %w", m, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *SavedStore) Add(ctx context.Context, clientID string, id int64) error {
	return s.c.ZAdd(ctx, savedKey(clientID), redis.Z{
		Score:  float64(s.now().UnixMicro()),
		Member: strconv.FormatInt(id, 10),
	}).Err()
}

func (s *SavedStore) Remove(ctx context.Context, clientID string, id int64) error {
	return s.c.ZRem(ctx, savedKey(clientID), strconv.FormatInt(id, 10)).Err()
}
