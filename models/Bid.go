package models

import (
	"gorm.io/gorm"
)

// Bid statuses. Transitions are validated against this set only; the owner
// normally moves a bid from pending to accepted or rejected exactly once.
var BidStatuses = []string{"pending", "accepted", "rejected", "completed"}

type Bid struct {
	gorm.Model
	ListingID    uint     `json:"listingID" gorm:"index;not null"`
	BidderID     uint     `json:"bidderID" gorm:"index;not null"`
	OfferedItems string   `json:"offeredItems" gorm:"size:500"`
	Amount       *float64 `json:"amount"`
	Message      string   `json:"message" gorm:"size:500"`
	Status       string   `json:"status" gorm:"size:16;default:pending;index"`

	Bidder  User    `json:"bidder,omitempty" gorm:"foreignKey:BidderID;references:ID"`
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID;references:ID"`
}
