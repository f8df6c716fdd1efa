package models

import (
	"time"
)

// ChatChannel is the per-group message log metadata. It is created lazily on
// the first send and never deleted, even when the parent group is.
type ChatChannel struct {
	GroupID   uint      `gorm:"primaryKey" json:"group_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy string    `gorm:"size:255;not null" json:"created_by"`
}

// ChatMessage is append-only: no updates, no deletes. Ordering within a
// channel is (created_at, id) ascending; id breaks coarse-clock ties stably.
type ChatMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_channel_order,priority:2" json:"created_at"`

	GroupID uint `gorm:"not null;index:idx_channel_order,priority:1" json:"group_id"`

	// ClientID deduplicates retried sends from the same sender.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	Sender string `gorm:"size:255;uniqueIndex:idx_client_sender;not null;index" json:"sender"`
	// SenderName is the display name captured at send time; it may diverge
	// from the sender's current profile name.
	SenderName string `gorm:"size:255" json:"sender_name"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

type ChatMessageResponse struct {
	ID         uint      `json:"id"`
	GroupID    uint      `json:"group_id"`
	ClientID   string    `json:"client_id"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *ChatMessage) ToResponse() ChatMessageResponse {
	return ChatMessageResponse{
		ID:         m.ID,
		GroupID:    m.GroupID,
		ClientID:   m.ClientID,
		Sender:     m.Sender,
		SenderName: m.SenderName,
		Text:       m.Text,
		Timestamp:  m.CreatedAt,
	}
}
