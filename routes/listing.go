package routes

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/utils"
)

// createListingTimeout converts a hung store write into a user-visible
// failure instead of an indefinite wait. The write itself is not cancelled.
const createListingTimeout = 10 * time.Second

func CreateListing(ctx iris.Context) {
	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	fields := repo.ListingFields{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Images:      input.Images,
		Location:    input.Location,
	}

	type createResult struct {
		id  uint
		err error
	}
	done := make(chan createResult, 1)
	go func() {
		id, err := listingRepo().Create(fields, claims.ID)
		done <- createResult{id, err}
	}()

	select {
	case res := <-done:
		if errors.Is(res.err, repo.ErrValidation) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", res.err.Error(), ctx)
			return
		}
		if res.err != nil {
			utils.CreateError(iris.StatusInternalServerError, "Error", res.err.Error(), ctx)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"id": res.id})
	case <-time.After(createListingTimeout):
		utils.CreateError(iris.StatusGatewayTimeout, "Timeout", "Listing creation timed out.", ctx)
	}
}

// GetListings is public: ?category= is pushed to the store, ?search= is a
// substring match applied after retrieval.
func GetListings(ctx iris.Context) {
	category := ctx.URLParamDefault("category", "")
	search := ctx.URLParamDefault("search", "")

	listings, err := listingRepo().GetAll(category, search)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(listings)
}

func GetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	listing, err := listingRepo().GetOne(id)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	if listing == nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(listing)
}

func GetMyListings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	listings, err := listingRepo().GetMine(claims.ID)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(listings)
}

func UpdateListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	r := listingRepo()
	listing, err := r.GetOne(id)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	if listing == nil {
		utils.CreateNotFound(ctx)
		return
	}

	// Ownership is the route's responsibility, not the repository's
	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updateErr := r.Update(id, repo.ListingFields{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Images:      input.Images,
		Location:    input.Location,
	})
	if errors.Is(updateErr, repo.ErrValidation) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", updateErr.Error(), ctx)
		return
	}
	if updateErr != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", updateErr.Error(), ctx)
		return
	}

	updated, _ := r.GetOne(id)
	ctx.JSON(updated)
}

func DeleteListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid id", ctx)
		return
	}

	r := listingRepo()
	listing, err := r.GetOne(id)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	if listing == nil {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.OwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	// Owner-initiated: no reason, no acting admin
	if err := r.Delete(id, "", 0); err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type CreateListingInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=20,max=150"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"required,gte=1,lte=100000000"`
	Images      []string `json:"images" validate:"required,min=1,max=3"`
	Location    string   `json:"location"`
}
