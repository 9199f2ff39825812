package repo

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/theabhijithashok/ValueXChange/models"
)

// Publisher pushes full snapshots to live subscribers. Implemented by the
// websocket hub; nil when the core runs without live feeds (tests).
type Publisher interface {
	PublishMessages(conversationID uint, payload interface{})
	PublishConversations(userID uint, payload interface{})
}

// companionCache holds public profiles looked up while building
// conversation lists. Process-wide, keyed by user id, never evicted:
// usernames rarely change mid-session and the staleness is accepted.
var companionCache sync.Map

// PublicProfile is the subset of a user shown to chat counterparts.
type PublicProfile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarURL"`
}

// ConversationView is a conversation enriched with the companion profile.
type ConversationView struct {
	models.Conversation
	Companion PublicProfile `json:"companion"`
}

// Chat owns conversations and their append-only messages.
type Chat struct {
	db  *gorm.DB
	pub Publisher
}

func NewChat(db *gorm.DB) *Chat {
	return &Chat{db: db}
}

// WithPublisher attaches the live-feed publisher.
func (c *Chat) WithPublisher(p Publisher) *Chat {
	c.pub = p
	return c
}

// ConversationKey derives the deterministic thread key for a participant
// pair. Order-insensitive: the smaller id always comes first.
func ConversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// CreateConversation returns the conversation for the pair, creating it on
// first contact. Calling twice with the same unordered pair yields the same
// conversation.
func (c *Chat) CreateConversation(a, b uint) (*models.Conversation, error) {
	if a == b {
		return nil, fmt.Errorf("%w: a conversation needs two distinct participants", ErrValidation)
	}
	if a > b {
		a, b = b, a
	}
	key := ConversationKey(a, b)

	var conv models.Conversation
	err := c.db.Where("key = ?", key).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{Key: key, ParticipantOneID: a, ParticipantTwoID: b}
	if err := c.db.Create(&conv).Error; err != nil {
		// Lost a creation race; the unique key means the winner's row is ours.
		var existing models.Conversation
		if ferr := c.db.Where("key = ?", key).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conv, nil
}

// SendMessage appends to the thread and refreshes the denormalized preview
// on the parent. The two writes are not atomic; a crash in between leaves a
// stale preview, which is acceptable. Subscribers then receive the full
// ascending message list, not a delta.
func (c *Chat) SendMessage(conversationID, senderID uint, text string) (*models.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	var conv models.Conversation
	err := c.db.First(&conv, conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if senderID != conv.ParticipantOneID && senderID != conv.ParticipantTwoID {
		return nil, fmt.Errorf("%w: sender is not a participant", ErrValidation)
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}
	if err := c.db.Create(&message).Error; err != nil {
		return nil, err
	}

	preview := text
	if len(preview) > 256 {
		preview = preview[:256]
	}
	c.db.Model(&conv).Updates(map[string]interface{}{"last_message": preview})

	c.publishSnapshots(&conv)

	return &message, nil
}

// Messages lists a conversation's messages in creation order ascending.
func (c *Chat) Messages(conversationID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := c.db.Where("conversation_id = ?", conversationID).Order("id ASC").Find(&msgs).Error
	return msgs, err
}

// ForUser lists the conversations a user participates in, most recently
// active first, with the companion profile embedded. Companion lookups go
// through the process-wide cache.
func (c *Chat) ForUser(userID uint) ([]ConversationView, error) {
	var convs []models.Conversation
	err := c.db.
		Where("participant_one_id = ? OR participant_two_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		companionID := conv.ParticipantOneID
		if companionID == userID {
			companionID = conv.ParticipantTwoID
		}
		views = append(views, ConversationView{
			Conversation: conv,
			Companion:    c.companionProfile(companionID),
		})
	}
	return views, nil
}

func (c *Chat) companionProfile(userID uint) PublicProfile {
	if cached, ok := companionCache.Load(userID); ok {
		return cached.(PublicProfile)
	}

	profile := PublicProfile{ID: userID, Username: "Unknown User"}
	var user models.User
	if err := c.db.Select("id, username, avatar_url").First(&user, userID).Error; err == nil {
		profile = PublicProfile{ID: user.ID, Username: user.Username, AvatarURL: user.AvatarURL}
	}

	companionCache.Store(userID, profile)
	return profile
}

func (c *Chat) publishSnapshots(conv *models.Conversation) {
	if c.pub == nil {
		return
	}

	if msgs, err := c.Messages(conv.ID); err == nil {
		c.pub.PublishMessages(conv.ID, map[string]interface{}{
			"conversationID": conv.ID,
			"messages":       msgs,
		})
	}

	for _, uid := range []uint{conv.ParticipantOneID, conv.ParticipantTwoID} {
		if views, err := c.ForUser(uid); err == nil {
			c.pub.PublishConversations(uid, map[string]interface{}{
				"conversations": views,
			})
		}
	}
}
