package cache

import (
	"fmt"
	"time"

	"github.com/aisyah-bit/studyally-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	MembershipTTL = 2 * time.Minute
)

// MembershipCache caches the group list per identity. Joins, leaves, creates
// and deletes invalidate the acting identity; everyone else ages out on TTL.
type MembershipCache struct {
	redis *RedisCache
}

func NewMembershipCache(redis *RedisCache) *MembershipCache {
	return &MembershipCache{redis: redis}
}

func membershipKey(email string) string {
	return fmt.Sprintf("membergroups:%s", email)
}

func (mc *MembershipCache) GetGroups(email string) ([]models.Group, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(membershipKey(email))
	if err != nil || data == nil {
		return nil, false
	}

	var groups []models.Group
	if err := msgpack.Unmarshal(data, &groups); err != nil {
		return nil, false
	}
	return groups, true
}

func (mc *MembershipCache) SetGroups(email string, groups []models.Group) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(groups)
	if err != nil {
		return err
	}
	return mc.redis.Set(membershipKey(email), data, MembershipTTL)
}

func (mc *MembershipCache) Invalidate(email string) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(membershipKey(email))
}
