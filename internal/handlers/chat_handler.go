package handlers

import (
	"github.com/aisyah-bit/studyally-backend/internal/handlers/ws"
	"github.com/aisyah-bit/studyally-backend/internal/httpx"
	"github.com/aisyah-bit/studyally-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService     *service.ChatService
	presenceService *service.PresenceService
	hub             *ws.Hub
}

func NewChatHandler(chatService *service.ChatService, presenceService *service.PresenceService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		chatService:     chatService,
		presenceService: presenceService,
		hub:             hub,
	}
}

func (h *ChatHandler) GetGroupMessages(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	limit := c.QueryInt("limit", 0)
	messages, err := h.chatService.History(groupID, identity, limit)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]interface{}, len(messages))
	for i, msg := range messages {
		responses[i] = msg.ToResponse()
	}
	return c.JSON(fiber.Map{
		"messages": responses,
		"count":    len(responses),
	})
}

// SendGroupMessage is the HTTP fallback for clients without a socket; the
// appended message still fans out to live subscribers.
func (h *ChatHandler) SendGroupMessage(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	var input service.SendInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	message, err := h.chatService.Send(groupID, identity, input)
	if err != nil {
		return serviceError(c, err)
	}

	h.hub.BroadcastToGroup(groupID, map[string]interface{}{
		"type":    "message",
		"payload": message.ToResponse(),
	})
	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

func (h *ChatHandler) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	members, err := h.chatService.Members(groupID, identity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(members)
}

// GetChatRoute resolves the navigation target for the chats entry.
func (h *ChatHandler) GetChatRoute(c *fiber.Ctx) error {
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}
	route, err := h.presenceService.PrimaryChatRoute(identity)
	if err != nil {
		return httpx.Internal(c, "chat_route_failed")
	}
	return c.JSON(route)
}
