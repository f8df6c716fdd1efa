package cache

import (
	"fmt"
	"time"
)

const (
	// Matches the websocket pong timeout so stale entries age out even after
	// an unclean disconnect.
	OnlinePresenceTTL = 90 * time.Second
)

// PresenceCache tracks which identities hold a live websocket connection.
type PresenceCache struct {
	redis *RedisCache
}

func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func presenceKey(email string) string {
	return fmt.Sprintf("online:%s", email)
}

func (pc *PresenceCache) SetOnline(email string) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:identities", email); err != nil {
		return err
	}
	return pc.redis.Set(presenceKey(email), []byte("1"), OnlinePresenceTTL)
}

func (pc *PresenceCache) SetOffline(email string) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:identities", email); err != nil {
		return err
	}
	return pc.redis.Delete(presenceKey(email))
}

func (pc *PresenceCache) IsOnline(email string) bool {
	if pc == nil || pc.redis == nil {
		return false
	}
	return pc.redis.Exists(presenceKey(email))
}

func (pc *PresenceCache) OnlineIdentities() ([]string, error) {
	if pc == nil || pc.redis == nil {
		return nil, nil
	}
	return pc.redis.SetMembers("online:identities")
}
