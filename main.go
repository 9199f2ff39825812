package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/theabhijithashok/ValueXChange/internal/ws"
	"github.com/theabhijithashok/ValueXChange/routes"
	"github.com/theabhijithashok/ValueXChange/storage"
	"github.com/theabhijithashok/ValueXChange/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	utils.InitMailClient()

	routes.Hub = ws.NewHub()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Get("/{id}/wishlist", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserWishlist)
		user.Patch("/{id}/wishlist", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserWishlist)
	}

	listing := app.Party("/api/listing")
	{
		listing.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateListing)
		listing.Get("/", routes.GetListings)
		listing.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyListings)
		listing.Get("/{id:uint}", routes.GetListing)
		listing.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listing.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteListing)
	}

	bid := app.Party("/api/bid", accessTokenVerifierMiddleware)
	{
		bid.Post("/", routes.CreateBid)
		bid.Get("/listing/{id:uint}", routes.GetBidsForListing)
		bid.Get("/mine", routes.GetMyBids)
		bid.Patch("/{id:uint}/status", routes.UpdateBidStatus)
	}

	conversation := app.Party("/api/conversation", accessTokenVerifierMiddleware)
	{
		conversation.Post("/", routes.CreateConversation)
		conversation.Get("/", routes.GetUserConversations)
	}

	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Post("/", routes.CreateMessage)
		messages.Get("/", routes.ListMessages)
	}

	liveFeeds := app.Party("/api/ws", accessTokenVerifierMiddleware)
	{
		liveFeeds.Get("/messages/{id:uint}", routes.SubscribeMessages)
		liveFeeds.Get("/conversations", routes.SubscribeConversations)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Post("/users/{id:uint}/block", routes.AdminBlockUser)
		admin.Post("/users/{id:uint}/unblock", routes.AdminUnblockUser)
		admin.Get("/listings", routes.AdminListListings)
		admin.Get("/listings/archive", routes.AdminListArchivedListings)
		admin.Delete("/listings/{id:uint}", routes.AdminDeleteListing)
		admin.Get("/bids", routes.AdminListBids)
		admin.Get("/audit", routes.AdminListAudit)
		admin.Get("/stats", routes.AdminStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("listening on :" + port)
	app.Listen(":" + port)
}
