package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/storage"
	"github.com/theabhijithashok/ValueXChange/utils"

	"github.com/theabhijithashok/ValueXChange/models"
)

func CreateMessage(ctx iris.Context) {
	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	message, err := chatRepo().SendMessage(req.ConversationID, claims.ID, req.Text)
	if errors.Is(err, repo.ErrNotFound) {
		utils.CreateNotFound(ctx)
		return
	}
	if errors.Is(err, repo.ErrValidation) {
		utils.CreateError(iris.StatusForbidden, "Message Error", err.Error(), ctx)
		return
	}
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(message)
}

// ListMessages: GET /api/messages?conversationID=... in creation order.
func ListMessages(ctx iris.Context) {
	convID, err := ctx.URLParamInt("conversationID")
	if err != nil || convID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "conversationID is required", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if !isParticipant(uint(convID), claims.ID) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	msgs, err := chatRepo().Messages(uint(convID))
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"messages": msgs})
}

func isParticipant(conversationID, userID uint) bool {
	var conv models.Conversation
	if err := storage.DB.First(&conv, conversationID).Error; err != nil {
		return false
	}
	return conv.ParticipantOneID == userID || conv.ParticipantTwoID == userID
}

type CreateMessageInput struct {
	ConversationID uint   `json:"conversationID" validate:"required"`
	Text           string `json:"text" validate:"required,lt=5000"`
}
