package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/theabhijithashok/ValueXChange/models"
	"github.com/theabhijithashok/ValueXChange/storage"
	"github.com/theabhijithashok/ValueXChange/utils"
)

// GET /api/admin/users?page=&per_page=&q=&status=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	q := ctx.URLParamDefault("q", "")
	status := ctx.URLParamDefault("status", "")

	query := storage.DB.Model(&models.User{})
	if q != "" {
		search := "%" + q + "%"
		query = query.Where("lower(username) LIKE lower(?) OR lower(email) LIKE lower(?)", search, search)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&users)

	utils.JSONPage(ctx, users, page, perPage, total)
}

// POST /api/admin/users/{id}/block
func AdminBlockUser(ctx iris.Context) {
	setUserStatus(ctx, "blocked", "user.block")
}

// POST /api/admin/users/{id}/unblock
func AdminUnblockUser(ctx iris.Context) {
	setUserStatus(ctx, "active", "user.unblock")
}

func setUserStatus(ctx iris.Context, status, action string) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Status = status
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// Blocking ends the active session; sign-in is rejected post-auth
	if status == "blocked" {
		utils.RevokeUserTokens(user.ID)
	}

	utils.Audit(ctx, action, "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": iris.Map{"user": &user}})
}

// GET /api/admin/bids
func AdminListBids(ctx iris.Context) {
	bids, err := bidRepo().All()
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"data": bids, "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /api/admin/audit?page=&per_page=
func AdminListAudit(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var total int64
	storage.DB.Model(&models.AuditLog{}).Count(&total)

	var entries []models.AuditLog
	storage.DB.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&entries)

	utils.JSONPage(ctx, entries, page, perPage, total)
}

// GET /api/admin/stats
func AdminStats(ctx iris.Context) {
	var users, listings, bids, archived int64
	storage.DB.Model(&models.User{}).Count(&users)
	storage.DB.Model(&models.Listing{}).Count(&listings)
	storage.DB.Model(&models.Bid{}).Count(&bids)
	storage.DB.Model(&models.ListingArchive{}).Count(&archived)

	ctx.JSON(iris.Map{"data": iris.Map{
		"users":            users,
		"listings":         listings,
		"bids":             bids,
		"archivedListings": archived,
	}})
}
