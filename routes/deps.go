package routes

import (
	"github.com/theabhijithashok/ValueXChange/internal/ws"
	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/services"
	"github.com/theabhijithashok/ValueXChange/storage"
)

// Hub is the live-feed hub, assigned from main before the app serves.
var Hub *ws.Hub

func listingRepo() *repo.Listings {
	return repo.NewListings(storage.DB).WithNotifier(services.NewModerationNotifier(chatRepo()))
}

func bidRepo() *repo.Bids {
	return repo.NewBids(storage.DB)
}

func wishlistRepo() *repo.Wishlist {
	return repo.NewWishlist(storage.DB)
}

func chatRepo() *repo.Chat {
	c := repo.NewChat(storage.DB)
	if Hub != nil {
		c = c.WithPublisher(Hub)
	}
	return c
}
