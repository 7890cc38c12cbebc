// Package session tracks per-browsing-session state. A browsing session is
// identified by an opaque cookie; the only state kept against it is the set
// of listings it has already viewed, so a detail page refresh cannot inflate
// the view counter.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const markerTTL = 12 * time.Hour

type RedisViewMarkerStore struct {
	client *redis.Client
}

func NewRedisViewMarkerStore(client *redis.Client) *RedisViewMarkerStore {
	return &RedisViewMarkerStore{
		client: client,
	}
}

// MarkViewed records that the session has seen the listing. It reports true
// only on the first call for a given session/collection/id triple.
func (s *RedisViewMarkerStore) MarkViewed(ctx context.Context, sessionID, collection, listingID string) (bool, error) {
	key := fmt.Sprintf("session:%s:viewed_%s_%s", sessionID, collection, listingID)
	first, err := s.client.SetNX(ctx, key, "true", markerTTL).Result()
	if err != nil {
		return false, err
	}
	return first, nil
}
