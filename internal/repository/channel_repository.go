package repository

import (
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Ensure is the conditional create-if-absent write: when two members send
// their first messages concurrently exactly one row wins and the loser is a
// no-op, so created_at/created_by are set once.
func (r *ChannelRepository) Ensure(groupID uint, createdBy string) error {
	channel := models.ChatChannel{GroupID: groupID, CreatedBy: createdBy}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}},
		DoNothing: true,
	}).Create(&channel).Error
}

func (r *ChannelRepository) Get(groupID uint) (*models.ChatChannel, error) {
	var channel models.ChatChannel
	if err := r.db.First(&channel, "group_id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ChannelRepository) FindByClientID(clientID, sender string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.Where("client_id = ? AND sender = ?", clientID, sender).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns the channel log ascending by store-assigned timestamp,
// with id as the stable tie-break for coarse-clock collisions. A positive
// limit keeps only the newest messages, still in ascending order.
func (r *ChannelRepository) ListMessages(groupID uint, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	q := r.db.Where("group_id = ?", groupID)
	if limit > 0 {
		err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
		return messages, nil
	}
	err := q.Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}
