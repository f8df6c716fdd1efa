package handlers

import (
	"log"

	"github.com/aisyah-bit/studyally-backend/internal/handlers/ws"
	"github.com/aisyah-bit/studyally-backend/internal/service"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	chatService     *service.ChatService
	presenceService *service.PresenceService
	hub             *ws.Hub
}

func NewWebSocketHandler(chatService *service.ChatService, presenceService *service.PresenceService) *WebSocketHandler {
	return &WebSocketHandler{
		chatService:     chatService,
		presenceService: presenceService,
		hub:             ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	identity := c.Locals("identity").(string)
	displayName, _ := c.Locals("displayName").(string)

	h.hub.Register(identity, c)

	go func() {
		if err := h.presenceService.SetOnline(identity); err != nil {
			log.Printf("Failed to set %s online: %v", identity, err)
		}
	}()

	defer func() {
		h.hub.Unregister(identity)
		go func() {
			if err := h.presenceService.SetOffline(identity); err != nil {
				log.Printf("Failed to set %s offline: %v", identity, err)
			}
		}()
	}()

	log.Printf("Identity %s connected via WebSocket", identity)

	ctx := &ws.MessageContext{
		Identity:    identity,
		DisplayName: displayName,
		Conn:        c,
		Hub:         h.hub,
		Chat:        h.chatService,
	}

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from %s: %v", identity, err)
			break
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from %s: %v", identity, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from %s: %v", msg.GetType(), identity, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("Identity %s disconnected from WebSocket", identity)
}
