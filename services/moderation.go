package services

import (
	"fmt"
	"log"

	"github.com/theabhijithashok/ValueXChange/repo"
)

// ModerationNotifier delivers takedown reasons to listing owners over the
// messaging channel. Best-effort by contract: failures are logged and never
// block the deletion that triggered them.
type ModerationNotifier struct {
	chat *repo.Chat
}

func NewModerationNotifier(chat *repo.Chat) *ModerationNotifier {
	return &ModerationNotifier{chat: chat}
}

// ListingRemoved composes or reuses the admin-owner conversation and
// appends a system message carrying the reason.
func (n *ModerationNotifier) ListingRemoved(ownerID, adminID uint, title, reason string) {
	conv, err := n.chat.CreateConversation(adminID, ownerID)
	if err != nil {
		log.Printf("moderation: could not open conversation with user %d: %v", ownerID, err)
		return
	}

	text := fmt.Sprintf("Your listing %q was removed by a moderator. Reason: %s", title, reason)
	if _, err := n.chat.SendMessage(conv.ID, adminID, text); err != nil {
		log.Printf("moderation: could not deliver takedown notice to user %d: %v", ownerID, err)
	}
}
