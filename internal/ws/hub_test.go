package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(h *Hub) *Client {
	return &Client{Hub: h, Send: make(chan []byte, 8), UserID: 1}
}

func TestPublishMessagesDeliversSnapshot(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.SubscribeMessages(42, c)

	h.PublishMessages(42, map[string]interface{}{"conversationID": 42, "messages": []string{"hi"}})

	select {
	case data := <-c.Send:
		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("snapshot is not JSON: %v", err)
		}
		if decoded["conversationID"].(float64) != 42 {
			t.Fatalf("unexpected snapshot: %v", decoded)
		}
	default:
		t.Fatal("expected a snapshot on the send channel")
	}
}

func TestPublishIsScopedToFeed(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.SubscribeMessages(1, c)

	h.PublishMessages(2, "other conversation")
	h.PublishConversations(1, "wrong feed kind")

	select {
	case data := <-c.Send:
		t.Fatalf("expected no delivery, got %s", data)
	default:
	}
}

func TestUnsubscribeClosesSendAndStopsDelivery(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.SubscribeMessages(7, c)
	h.SubscribeConversations(1, c)

	h.Unsubscribe(c)

	if _, ok := <-c.Send; ok {
		t.Fatal("expected the send channel to be closed")
	}

	// Publishing after unsubscribe must not panic on the closed channel
	h.PublishMessages(7, "after unsubscribe")
	h.PublishConversations(1, "after unsubscribe")

	// A second Unsubscribe is a no-op, not a double close
	h.Unsubscribe(c)
}

func TestSlowConsumerDropsSnapshot(t *testing.T) {
	h := NewHub()
	c := &Client{Hub: h, Send: make(chan []byte, 1), UserID: 2}
	h.SubscribeConversations(2, c)

	h.PublishConversations(2, "first")
	h.PublishConversations(2, "second")

	if got := len(c.Send); got != 1 {
		t.Fatalf("expected the overflow snapshot dropped, buffered %d", got)
	}
	data := <-c.Send
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s != "first" {
		t.Fatalf("expected the first snapshot kept, got %s", data)
	}
}
