package repository

import (
	"github.com/aisyah-bit/studyally-backend/internal/models"
)

// GroupRepositoryInterface defines the contract for group and membership operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	FindAll() ([]models.Group, error)
	Update(group *models.Group) error
	Delete(id uint) error
	// AddJoinedWithCapacity admits email into the joined set only while
	// capacity remains. admitted reports whether the identity is in the
	// joined set (or is the creator) after the call; false means the group
	// was full and nothing changed.
	AddJoinedWithCapacity(groupID uint, email string) (admitted bool, err error)
	RemoveJoined(groupID uint, email string) error
	CountJoined(groupID uint) (int64, error)
	ReplaceInvites(groupID uint, emails []string) error
	GroupsFor(email string) ([]models.Group, error)
	FirstChatGroupFor(email string) (*models.Group, error)
}

// ChannelRepositoryInterface defines the contract for chat channel operations
type ChannelRepositoryInterface interface {
	// Ensure creates the channel metadata if absent; concurrent callers must
	// never produce a second row or overwrite the first one's created_at.
	Ensure(groupID uint, createdBy string) error
	Get(groupID uint) (*models.ChatChannel, error)
	CreateMessage(message *models.ChatMessage) error
	FindByClientID(clientID, sender string) (*models.ChatMessage, error)
	ListMessages(groupID uint, limit int) ([]models.ChatMessage, error)
}

// ProfileRepositoryInterface defines the contract for read-only profile lookups
type ProfileRepositoryInterface interface {
	FindByEmail(email string) (*models.Profile, error)
	FindByEmails(emails []string) (map[string]models.Profile, error)
}
