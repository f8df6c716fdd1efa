package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSerializeDeserialize(t *testing.T) {
	original := &MessageChat{GroupID: 7, ClientID: "client-1", Text: "hi"}

	data, err := Serialize(original)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var wrapper SerializedMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		t.Fatalf("unmarshal wrapper: %v", err)
	}
	if wrapper.Type != "chat" {
		t.Errorf("wrapper type = %q, want chat", wrapper.Type)
	}

	msg, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	chat, ok := msg.(*MessageChat)
	if !ok {
		t.Fatalf("Deserialize returned %T, want *MessageChat", msg)
	}
	if chat.GroupID != 7 || chat.ClientID != "client-1" || chat.Text != "hi" {
		t.Errorf("round trip lost fields: %+v", chat)
	}
}

func TestDeserializeUnknownType(t *testing.T) {
	if _, err := Deserialize([]byte(`{"type":"bogus","payload":{}}`)); err == nil {
		t.Error("expected error for unknown message type")
	}
	if _, err := Deserialize([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed frame")
	}
}

func TestTypeRegistry(t *testing.T) {
	registry := GetTypeRegistry()
	for _, msgType := range []string{"subscribe", "unsubscribe", "chat", "ping", "pong"} {
		if _, ok := registry[msgType]; !ok {
			t.Errorf("type %q is not registered", msgType)
		}
	}

	msg, err := CreateMessage("subscribe", registry)
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.GetType() != "subscribe" {
		t.Errorf("created message type = %q, want subscribe", msg.GetType())
	}
}

func registerTestClient(h *Hub, identity string) {
	client := &ClientConnection{
		Identity:   identity,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(time.Hour),
		CloseChan:  make(chan struct{}),
	}
	h.mux.Lock()
	h.clients[identity] = client
	h.mux.Unlock()
}

func TestHubSubscriptions(t *testing.T) {
	h := NewHub()

	registerTestClient(h, "siti@student.test")
	registerTestClient(h, "amin@student.test")

	// Subscribing without a connection is ignored.
	h.Subscribe(1, "ghost@student.test")
	if h.SubscriberCount(1) != 0 {
		t.Errorf("subscriber count = %d, want 0 for connectionless identity", h.SubscriberCount(1))
	}

	h.Subscribe(1, "siti@student.test")
	h.Subscribe(1, "amin@student.test")
	h.Subscribe(2, "siti@student.test")

	if !h.IsSubscribed(1, "siti@student.test") {
		t.Error("siti should be subscribed to group 1")
	}
	if h.SubscriberCount(1) != 2 {
		t.Errorf("group 1 subscriber count = %d, want 2", h.SubscriberCount(1))
	}
	if h.Count() != 2 {
		t.Errorf("client count = %d, want 2", h.Count())
	}

	h.Unsubscribe(1, "amin@student.test")
	if h.IsSubscribed(1, "amin@student.test") {
		t.Error("amin should be unsubscribed from group 1")
	}
	if h.SubscriberCount(1) != 1 {
		t.Errorf("group 1 subscriber count = %d, want 1", h.SubscriberCount(1))
	}

	// Disconnecting disposes every subscription the identity held.
	h.Unregister("siti@student.test")
	if h.IsSubscribed(1, "siti@student.test") || h.IsSubscribed(2, "siti@student.test") {
		t.Error("unregister left subscriptions behind")
	}
	if h.SubscriberCount(2) != 0 {
		t.Errorf("group 2 subscriber count = %d, want 0", h.SubscriberCount(2))
	}
	if h.IsOnline("siti@student.test") {
		t.Error("unregistered identity still online")
	}
	if !h.IsOnline("amin@student.test") {
		t.Error("unrelated identity dropped")
	}
}
