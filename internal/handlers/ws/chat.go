package ws

import (
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/service"
)

// MessageChat sends a message into a group's channel over the socket. The
// membership check runs again here; a subscription alone does not authorize
// posting.
type MessageChat struct {
	GroupID  uint   `json:"group_id"`
	ClientID string `json:"client_id"`
	Text     string `json:"text"`
}

func (msg *MessageChat) GetType() string {
	return "chat"
}

func (msg *MessageChat) Process(ctx *MessageContext) error {
	message, err := ctx.Chat.Send(msg.GroupID, ctx.Identity, service.SendInput{
		ClientID: msg.ClientID,
		Text:     msg.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			return SendError(ctx.Conn, "empty_message", "Message text is required", "")
		case errors.Is(err, service.ErrGroupNotFound):
			return SendError(ctx.Conn, "group_not_found", "Group no longer available", "")
		case errors.Is(err, service.ErrNotMember):
			return SendError(ctx.Conn, "not_member", "Not a member of this group", "")
		}
		return SendError(ctx.Conn, "send_message_failed", "Failed to send message", err.Error())
	}

	// Ack to the sender first so the compose box can clear, then fan out to
	// every live subscriber of the channel (sender included).
	if err := ctx.Conn.WriteJSON(map[string]interface{}{
		"type": "ack",
		"payload": map[string]interface{}{
			"client_id": message.ClientID,
			"id":        message.ID,
			"timestamp": message.CreatedAt,
		},
	}); err != nil {
		return err
	}

	ctx.Hub.BroadcastToGroup(msg.GroupID, map[string]interface{}{
		"type":    "message",
		"payload": message.ToResponse(),
	})
	return nil
}
