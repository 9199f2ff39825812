package models

import (
	"gorm.io/gorm"
)

// Conversation is a pairwise thread. Key is derived from the sorted
// participant pair so creation is idempotent for a given pair.
type Conversation struct {
	gorm.Model
	Key              string `json:"key" gorm:"size:64;uniqueIndex"`
	ParticipantOneID uint   `json:"participantOneID" gorm:"index;not null"`
	ParticipantTwoID uint   `json:"participantTwoID" gorm:"index;not null"`
	LastMessage      string `json:"lastMessage" gorm:"size:256"`

	Messages []Message `json:"messages,omitempty"`
}

// Message is append-only; rows are never mutated or deleted.
type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"index;not null"`
	SenderID       uint   `json:"senderID" gorm:"not null"`
	Text           string `json:"text" gorm:"size:5000"`
}
