package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/utils"
)

func CreateBid(ctx iris.Context) {
	var input CreateBidInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	id, err := bidRepo().Create(input.ListingID, claims.ID, repo.BidFields{
		OfferedItems: input.OfferedItems,
		Amount:       input.Amount,
		Message:      input.Message,
	})
	if errors.Is(err, repo.ErrNotFound) {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found.", ctx)
		return
	}
	if errors.Is(err, repo.ErrSelfBid) {
		utils.CreateError(iris.StatusBadRequest, "Bid Error", "Cannot bid on your own listing.", ctx)
		return
	}
	if errors.Is(err, repo.ErrValidation) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"id": id})
}

func GetBidsForListing(ctx iris.Context) {
	listingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	bids, err := bidRepo().ForListing(listingID)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(bids)
}

func GetMyBids(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	bids, err := bidRepo().Mine(claims.ID)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(bids)
}

// UpdateBidStatus lets the listing owner accept or reject an offer.
func UpdateBidStatus(ctx iris.Context) {
	bidID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	var input UpdateBidStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	r := bidRepo()
	bid, err := r.Get(bidID)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	if bid == nil {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if bid.Listing.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := r.UpdateStatus(bidID, input.Status); err != nil {
		if errors.Is(err, repo.ErrValidation) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type CreateBidInput struct {
	ListingID    uint     `json:"listingID" validate:"required"`
	OfferedItems string   `json:"offeredItems" validate:"max=500"`
	Amount       *float64 `json:"amount"`
	Message      string   `json:"message" validate:"max=500"`
}

type UpdateBidStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected completed"`
}
