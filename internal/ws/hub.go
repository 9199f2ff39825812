package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks live subscribers and fans snapshots out to them. There are two
// feed kinds: per-conversation message feeds and per-user conversation-list
// feeds. Every publish carries the full current state, never a delta;
// consumers replace their view wholesale. Ordering is only guaranteed
// within a single conversation feed.
type Hub struct {
	mu sync.RWMutex

	// message feed subscribers keyed by conversation id
	messageSubs map[uint]map[*Client]bool

	// conversation-list feed subscribers keyed by user id
	conversationSubs map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		messageSubs:      make(map[uint]map[*Client]bool),
		conversationSubs: make(map[uint]map[*Client]bool),
	}
}

// SubscribeMessages registers a client for a conversation's message feed.
func (h *Hub) SubscribeMessages(conversationID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.messageSubs[conversationID] == nil {
		h.messageSubs[conversationID] = make(map[*Client]bool)
	}
	h.messageSubs[conversationID][c] = true
}

// SubscribeConversations registers a client for a user's conversation-list feed.
func (h *Hub) SubscribeConversations(userID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conversationSubs[userID] == nil {
		h.conversationSubs[userID] = make(map[*Client]bool)
	}
	h.conversationSubs[userID][c] = true
}

// Unsubscribe removes a client from every feed and closes its send channel.
// Safe to call once per client; the read pump calls it on disconnect.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := false
	for id, subs := range h.messageSubs {
		if subs[c] {
			delete(subs, c)
			removed = true
			if len(subs) == 0 {
				delete(h.messageSubs, id)
			}
		}
	}
	for id, subs := range h.conversationSubs {
		if subs[c] {
			delete(subs, c)
			removed = true
			if len(subs) == 0 {
				delete(h.conversationSubs, id)
			}
		}
	}

	if removed {
		close(c.Send)
	}
}

// PublishMessages delivers a message-list snapshot to a conversation's
// subscribers.
func (h *Hub) PublishMessages(conversationID uint, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.messageSubs[conversationID], payload)
}

// PublishConversations delivers a conversation-list snapshot to a user's
// subscribers.
func (h *Hub) PublishConversations(userID uint, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.conversationSubs[userID], payload)
}

func (h *Hub) deliver(subs map[*Client]bool, payload interface{}) {
	if len(subs) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: dropping snapshot, marshal failed: %v", err)
		return
	}
	for c := range subs {
		select {
		case c.Send <- data:
		default:
			// Slow consumer; drop this snapshot for it. The next publish
			// carries the full state anyway.
		}
	}
}
