package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/models"
	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/storage"
	"github.com/theabhijithashok/ValueXChange/utils"
)

// GET /api/admin/listings?page=&per_page=&status=&category=
func AdminListListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	status := ctx.URLParamDefault("status", "")
	category := ctx.URLParamDefault("category", "")

	query := storage.DB.Model(&models.Listing{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	query.Count(&total)

	var listings []models.Listing
	query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&listings)

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// DELETE /api/admin/listings/{id} { reason } — reason is mandatory here;
// the owner is notified through the messaging channel before archival.
func AdminDeleteListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Reason == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "a deletion reason is required")
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	r := listingRepo()
	listing, err := r.GetOne(id)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if listing == nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
		return
	}

	if err := r.Delete(id, body.Reason, claims.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "listing.delete", "listing", id, listing, iris.Map{"reason": body.Reason})
	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}})
}

// GET /api/admin/listings/archive — the deletion trail.
func AdminListArchivedListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	var total int64
	storage.DB.Model(&models.ListingArchive{}).Count(&total)

	var archived []models.ListingArchive
	storage.DB.Order("deleted_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&archived)

	utils.JSONPage(ctx, archived, page, perPage, total)
}
