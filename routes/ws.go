package routes

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/internal/ws"
	"github.com/theabhijithashok/ValueXChange/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SubscribeMessages upgrades to a live message feed for one conversation.
// Every remote change delivers the full ascending message list; the client
// replaces its view wholesale. The subscription is released when the
// socket closes.
func SubscribeMessages(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if !isParticipant(conversationID, claims.ID) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(ctx.ResponseWriter(), ctx.Request(), nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	client := &ws.Client{
		Hub:    Hub,
		Conn:   conn,
		Send:   make(chan []byte, 8),
		UserID: claims.ID,
	}
	Hub.SubscribeMessages(conversationID, client)

	// Initial snapshot so the client does not wait for the next change
	if msgs, err := chatRepo().Messages(conversationID); err == nil {
		if data, err := json.Marshal(iris.Map{"conversationID": conversationID, "messages": msgs}); err == nil {
			client.Send <- data
		}
	}

	go client.WritePump()
	go client.ReadPump()
}

// SubscribeConversations upgrades to the caller's live conversation-list feed.
func SubscribeConversations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	conn, err := upgrader.Upgrade(ctx.ResponseWriter(), ctx.Request(), nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	client := &ws.Client{
		Hub:    Hub,
		Conn:   conn,
		Send:   make(chan []byte, 8),
		UserID: claims.ID,
	}
	Hub.SubscribeConversations(claims.ID, client)

	if views, err := chatRepo().ForUser(claims.ID); err == nil {
		if data, err := json.Marshal(iris.Map{"conversations": views}); err == nil {
			client.Send <- data
		}
	}

	go client.WritePump()
	go client.ReadPump()
}
