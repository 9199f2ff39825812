package repo_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/theabhijithashok/ValueXChange/repo"
)

type capturingPublisher struct {
	messageSnapshots      map[uint]int
	conversationSnapshots map[uint]int
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{
		messageSnapshots:      map[uint]int{},
		conversationSnapshots: map[uint]int{},
	}
}

func (p *capturingPublisher) PublishMessages(conversationID uint, payload interface{}) {
	p.messageSnapshots[conversationID]++
}

func (p *capturingPublisher) PublishConversations(userID uint, payload interface{}) {
	p.conversationSnapshots[userID]++
}

func TestCreateConversationOrderInsensitive(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	chat := repo.NewChat(db)

	first, err := chat.CreateConversation(a.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := chat.CreateConversation(b.ID, a.ID)
	if err != nil {
		t.Fatalf("create reversed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same conversation for both orders, got %d and %d", first.ID, second.ID)
	}
	if first.Key != repo.ConversationKey(b.ID, a.ID) {
		t.Fatalf("unexpected key %q", first.Key)
	}
}

func TestCreateConversationRejectsSelf(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "loner")
	chat := repo.NewChat(db)

	_, err := chat.CreateConversation(a.ID, a.ID)
	if !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSendMessageAppendsAndUpdatesPreview(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "sender")
	b := createUser(t, db, "receiver")
	chat := repo.NewChat(db)

	conv, err := chat.CreateConversation(a.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := chat.SendMessage(conv.ID, a.ID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := chat.SendMessage(conv.ID, b.ID, "second"); err != nil {
		t.Fatalf("send reply: %v", err)
	}

	msgs, err := chat.Messages(conv.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatalf("expected ascending order, got %q then %q", msgs[0].Text, msgs[1].Text)
	}

	views, err := chat.ForUser(a.ID)
	if err != nil {
		t.Fatalf("forUser: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one conversation, got %d", len(views))
	}
	if views[0].LastMessage != "second" {
		t.Fatalf("expected preview refreshed, got %q", views[0].LastMessage)
	}
	if views[0].Companion.ID != b.ID {
		t.Fatalf("expected companion %d, got %d", b.ID, views[0].Companion.ID)
	}
}

func TestSendMessageTruncatesPreview(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "rambler")
	b := createUser(t, db, "listener")
	chat := repo.NewChat(db)

	conv, err := chat.CreateConversation(a.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	long := strings.Repeat("x", 300)
	if _, err := chat.SendMessage(conv.ID, a.ID, long); err != nil {
		t.Fatalf("send: %v", err)
	}

	views, err := chat.ForUser(a.ID)
	if err != nil {
		t.Fatalf("forUser: %v", err)
	}
	if got := len(views[0].LastMessage); got != 256 {
		t.Fatalf("expected 256-char preview, got %d", got)
	}

	msgs, _ := chat.Messages(conv.ID)
	if len(msgs[0].Text) != 300 {
		t.Fatalf("expected the full message stored, got %d chars", len(msgs[0].Text))
	}
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "pa")
	b := createUser(t, db, "pb")
	outsider := createUser(t, db, "eavesdropper")
	chat := repo.NewChat(db)

	conv, err := chat.CreateConversation(a.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := chat.SendMessage(conv.ID, outsider.ID, "hi"); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := chat.SendMessage(conv.ID, a.ID, ""); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("empty text: expected ErrValidation, got %v", err)
	}
	if _, err := chat.SendMessage(999, a.ID, "hi"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("missing conversation: expected ErrNotFound, got %v", err)
	}
}

func TestSendMessagePublishesSnapshots(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "puba")
	b := createUser(t, db, "pubb")
	pub := newCapturingPublisher()
	chat := repo.NewChat(db).WithPublisher(pub)

	conv, err := chat.CreateConversation(a.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := chat.SendMessage(conv.ID, a.ID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if pub.messageSnapshots[conv.ID] != 1 {
		t.Fatalf("expected one message snapshot, got %d", pub.messageSnapshots[conv.ID])
	}
	if pub.conversationSnapshots[a.ID] != 1 || pub.conversationSnapshots[b.ID] != 1 {
		t.Fatalf("expected a conversation snapshot per participant, got %v", pub.conversationSnapshots)
	}
}
