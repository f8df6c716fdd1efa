package ws

import (
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/service"
)

// MessageSubscribe opens a live query on a group's channel. The server
// replies with a full ordered snapshot, then pushes every appended message
// until the client unsubscribes or disconnects.
type MessageSubscribe struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageSubscribe) GetType() string {
	return "subscribe"
}

func (msg *MessageSubscribe) Process(ctx *MessageContext) error {
	if err := ctx.Chat.CanAccess(msg.GroupID, ctx.Identity); err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			return SendError(ctx.Conn, "group_not_found", "Group no longer available", "")
		case errors.Is(err, service.ErrNotMember):
			return SendError(ctx.Conn, "not_member", "Not a member of this group", "")
		}
		return SendError(ctx.Conn, "channel_unavailable", "Failed to open channel", err.Error())
	}

	ctx.Hub.Subscribe(msg.GroupID, ctx.Identity)

	messages, err := ctx.Chat.History(msg.GroupID, ctx.Identity, 0)
	if err != nil {
		ctx.Hub.Unsubscribe(msg.GroupID, ctx.Identity)
		return SendError(ctx.Conn, "channel_unavailable", "Failed to load channel history", err.Error())
	}

	responses := make([]interface{}, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse()
	}
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type": "snapshot",
		"payload": map[string]interface{}{
			"group_id": msg.GroupID,
			"messages": responses,
			"count":    len(responses),
		},
	})
}

// MessageUnsubscribe disposes a live channel subscription.
type MessageUnsubscribe struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageUnsubscribe) GetType() string {
	return "unsubscribe"
}

func (msg *MessageUnsubscribe) Process(ctx *MessageContext) error {
	ctx.Hub.Unsubscribe(msg.GroupID, ctx.Identity)
	return nil
}
