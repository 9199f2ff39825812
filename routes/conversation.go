package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/utils"
)

// CreateConversation opens (or reuses) the thread between the caller and
// one other user. The deterministic key makes this idempotent.
func CreateConversation(ctx iris.Context) {
	var input CreateConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	conv, err := chatRepo().CreateConversation(claims.ID, input.UserID)
	if errors.Is(err, repo.ErrValidation) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(conv)
}

// GetUserConversations lists the caller's threads with companion profiles.
func GetUserConversations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	views, err := chatRepo().ForUser(claims.ID)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"conversations": views})
}

type CreateConversationInput struct {
	UserID uint `json:"userID" validate:"required"`
}
