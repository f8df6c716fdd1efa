package service

import (
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/cache"
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"github.com/aisyah-bit/studyally-backend/internal/repository"
	"github.com/aisyah-bit/studyally-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatService struct {
	channelRepo repository.ChannelRepositoryInterface
	groupRepo   repository.GroupRepositoryInterface
	profileRepo repository.ProfileRepositoryInterface
	cache       *cache.ChannelCache
}

func NewChatService(
	channelRepo repository.ChannelRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	profileRepo repository.ProfileRepositoryInterface,
	channelCache *cache.ChannelCache,
) *ChatService {
	return &ChatService{
		channelRepo: channelRepo,
		groupRepo:   groupRepo,
		profileRepo: profileRepo,
		cache:       channelCache,
	}
}

type SendInput struct {
	ClientID string `json:"client_id"`
	Text     string `json:"text"`
}

// Send appends a message to the group's channel. Only the creator and joined
// members may post; invited identities have to join first. The channel
// metadata is created on first send, idempotently under concurrency.
func (s *ChatService) Send(groupID uint, identity string, input SendInput) (*models.ChatMessage, error) {
	text := validation.TrimAndLimit(input.Text, validation.MaxMessageLength())
	if text == "" {
		return nil, ErrEmptyMessage
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	switch group.RoleOf(identity) {
	case models.EdgeCreator, models.EdgeJoined:
	default:
		return nil, ErrNotMember
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	// Retried sends return the original message instead of appending twice.
	if existing, err := s.channelRepo.FindByClientID(clientID, identity); err == nil {
		return existing, nil
	}

	if err := s.channelRepo.Ensure(groupID, identity); err != nil {
		return nil, err
	}

	// Display name captured at send time; later profile renames do not
	// rewrite history.
	senderName := identity
	if profile, err := s.profileRepo.FindByEmail(identity); err == nil {
		senderName = profile.DisplayName()
	}

	message := &models.ChatMessage{
		GroupID:    groupID,
		ClientID:   clientID,
		Sender:     identity,
		SenderName: senderName,
		Text:       text,
	}
	if err := s.channelRepo.CreateMessage(message); err != nil {
		return nil, err
	}
	s.cache.Invalidate(groupID)
	return message, nil
}

// History returns the full ordered log for a channel. Viewing is restricted
// the same way as posting.
func (s *ChatService) History(groupID uint, identity string, limit int) ([]models.ChatMessage, error) {
	if err := s.CanAccess(groupID, identity); err != nil {
		return nil, err
	}
	if limit <= 0 {
		if cached, ok := s.cache.GetMessages(groupID); ok {
			return cached, nil
		}
	}
	messages, err := s.channelRepo.ListMessages(groupID, limit)
	if err != nil {
		return nil, err
	}
	if limit <= 0 && len(messages) > 0 {
		_ = s.cache.SetMessages(groupID, messages)
	}
	return messages, nil
}

// CanAccess resolves whether identity may read and subscribe to the channel.
func (s *ChatService) CanAccess(groupID uint, identity string) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	switch group.RoleOf(identity) {
	case models.EdgeCreator, models.EdgeJoined:
		return nil
	}
	return ErrNotMember
}

// Members resolves the channel member list with display names from profiles.
func (s *ChatService) Members(groupID uint, identity string) ([]models.MemberResponse, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if edge := group.RoleOf(identity); edge == models.EdgeNone {
		return nil, ErrNotMember
	}

	emails := append([]string{group.CreatorEmail}, group.JoinedList()...)
	profiles, err := s.profileRepo.FindByEmails(emails)
	if err != nil {
		return nil, err
	}
	out := make([]models.MemberResponse, 0, len(emails))
	for _, email := range emails {
		name := email
		if p, ok := profiles[email]; ok {
			name = p.DisplayName()
		}
		out = append(out, models.MemberResponse{
			Email: email,
			Name:  name,
			Role:  group.RoleOf(email),
		})
	}
	return out, nil
}
