package repo

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/theabhijithashok/ValueXChange/models"
)

// Bids is the offer repository.
type Bids struct {
	db *gorm.DB
}

func NewBids(db *gorm.DB) *Bids {
	return &Bids{db: db}
}

// BidFields carries the caller-supplied offer attributes.
type BidFields struct {
	OfferedItems string
	Amount       *float64
	Message      string
}

// Create places a bid against an existing listing. The listing is pre-read
// to enforce the self-bid rule before anything is written.
func (r *Bids) Create(listingID, bidderID uint, offer BidFields) (uint, error) {
	var listing models.Listing
	err := r.db.First(&listing, listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if listing.OwnerID == bidderID {
		return 0, ErrSelfBid
	}

	if offer.OfferedItems == "" && offer.Amount == nil {
		return 0, fmt.Errorf("%w: a bid needs an offer description or an amount", ErrValidation)
	}
	if offer.Amount != nil && *offer.Amount <= 0 {
		return 0, fmt.Errorf("%w: offered amount must be positive", ErrValidation)
	}

	bid := models.Bid{
		ListingID:    listingID,
		BidderID:     bidderID,
		OfferedItems: offer.OfferedItems,
		Amount:       offer.Amount,
		Message:      offer.Message,
		Status:       "pending",
	}
	if err := r.db.Create(&bid).Error; err != nil {
		return 0, err
	}
	return bid.ID, nil
}

// ForListing returns the bids on a listing, newest first, each enriched
// with the bidder's public fields. Enrichment is one follow-up read per
// bid; not batched, fine at this scale.
func (r *Bids) ForListing(listingID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.db.Where("listing_id = ?", listingID).Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	for i := range bids {
		var bidder models.User
		if err := r.db.Select("id, username, email, avatar_url").First(&bidder, bids[i].BidderID).Error; err == nil {
			bids[i].Bidder = bidder
		}
	}
	return bids, nil
}

// Mine returns a user's own bids, each enriched with the listing it
// targets. A bid whose listing was deleted keeps a zero-valued embed.
func (r *Bids) Mine(bidderID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.db.Where("bidder_id = ?", bidderID).Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	for i := range bids {
		var listing models.Listing
		if err := r.db.First(&listing, bids[i].ListingID).Error; err == nil {
			bids[i].Listing = listing
		}
	}
	return bids, nil
}

// All returns every bid, newest first, with both counterparts embedded.
// Admin console use only.
func (r *Bids) All() ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.db.Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	for i := range bids {
		var bidder models.User
		if err := r.db.Select("id, username, email").First(&bidder, bids[i].BidderID).Error; err == nil {
			bids[i].Bidder = bidder
		}
		var listing models.Listing
		if err := r.db.First(&listing, bids[i].ListingID).Error; err == nil {
			bids[i].Listing = listing
		}
	}
	return bids, nil
}

// Get loads a single bid with its listing (for ownership checks upstream).
func (r *Bids) Get(bidID uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.First(&bid, bidID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing models.Listing
	if err := r.db.First(&listing, bid.ListingID).Error; err == nil {
		bid.Listing = listing
	}
	return &bid, nil
}

// UpdateStatus sets a bid's status. Only enum membership is checked; the
// transition graph is deliberately unguarded.
func (r *Bids) UpdateStatus(bidID uint, status string) error {
	if !slices.Contains(models.BidStatuses, status) {
		return fmt.Errorf("%w: status must be one of %v", ErrValidation, models.BidStatuses)
	}
	res := r.db.Model(&models.Bid{}).Where("id = ?", bidID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
