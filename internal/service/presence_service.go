package service

import (
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/cache"
	"github.com/aisyah-bit/studyally-backend/internal/repository"
	"gorm.io/gorm"
)

const (
	RouteChat     = "chat"
	RouteDiscover = "discover"
)

type ChatRoute struct {
	Route     string `json:"route"`
	GroupID   uint   `json:"group_id,omitempty"`
	GroupName string `json:"group_name,omitempty"`
}

// PresenceService is a thin derived view over membership state: it picks the
// navigation target for the chats entry and tracks who is connected.
type PresenceService struct {
	groupRepo repository.GroupRepositoryInterface
	presence  *cache.PresenceCache
}

func NewPresenceService(groupRepo repository.GroupRepositoryInterface, presence *cache.PresenceCache) *PresenceService {
	return &PresenceService{groupRepo: groupRepo, presence: presence}
}

// PrimaryChatRoute returns the oldest group where identity is creator or
// joined; with no such group the caller is routed to group discovery.
func (s *PresenceService) PrimaryChatRoute(identity string) (ChatRoute, error) {
	group, err := s.groupRepo.FirstChatGroupFor(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChatRoute{Route: RouteDiscover}, nil
		}
		return ChatRoute{}, err
	}
	return ChatRoute{Route: RouteChat, GroupID: group.ID, GroupName: group.GroupName}, nil
}

func (s *PresenceService) SetOnline(identity string) error {
	return s.presence.SetOnline(identity)
}

func (s *PresenceService) SetOffline(identity string) error {
	return s.presence.SetOffline(identity)
}

// OnlineAmong filters a member list down to currently connected identities.
func (s *PresenceService) OnlineAmong(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		if s.presence.IsOnline(email) {
			out = append(out, email)
		}
	}
	return out
}
