package cache

import (
	"fmt"
	"time"

	"github.com/aisyah-bit/studyally-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ChannelTTL = 5 * time.Minute
)

// ChannelCache holds the recent full message log per group. It is a read
// optimization only: every send invalidates, and a nil cache disables it.
type ChannelCache struct {
	redis *RedisCache
}

func NewChannelCache(redis *RedisCache) *ChannelCache {
	return &ChannelCache{redis: redis}
}

func channelKey(groupID uint) string {
	return fmt.Sprintf("chan:%d", groupID)
}

func (cc *ChannelCache) GetMessages(groupID uint) ([]models.ChatMessage, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(channelKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.ChatMessage
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (cc *ChannelCache) SetMessages(groupID uint, messages []models.ChatMessage) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return cc.redis.Set(channelKey(groupID), data, ChannelTTL)
}

func (cc *ChannelCache) Invalidate(groupID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(channelKey(groupID))
}
