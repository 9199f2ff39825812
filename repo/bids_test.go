package repo_test

import (
	"errors"
	"testing"

	"github.com/theabhijithashok/ValueXChange/models"
	"github.com/theabhijithashok/ValueXChange/repo"
)

func TestCreateBidSelfBidRejected(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "selfbidder")
	listings := repo.NewListings(db)
	bids := repo.NewBids(db)

	listingID, err := listings.Create(validListingFields(), owner.ID)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	_, err = bids.Create(listingID, owner.ID, repo.BidFields{OfferedItems: "My own stuff"})
	if !errors.Is(err, repo.ErrSelfBid) {
		t.Fatalf("expected ErrSelfBid, got %v", err)
	}

	var count int64
	db.Model(&models.Bid{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no bid written, found %d", count)
	}
}

func TestCreateBidMissingListing(t *testing.T) {
	db := testDB(t)
	bidder := createUser(t, db, "hopeful")
	bids := repo.NewBids(db)

	_, err := bids.Create(424242, bidder.ID, repo.BidFields{OfferedItems: "Guitar"})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBidNeedsOfferOrAmount(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "owner3")
	bidder := createUser(t, db, "bidder3")
	listings := repo.NewListings(db)
	bids := repo.NewBids(db)

	listingID, err := listings.Create(validListingFields(), owner.ID)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if _, err := bids.Create(listingID, bidder.ID, repo.BidFields{}); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("empty offer: expected ErrValidation, got %v", err)
	}

	negative := -5.0
	if _, err := bids.Create(listingID, bidder.ID, repo.BidFields{Amount: &negative}); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("negative amount: expected ErrValidation, got %v", err)
	}
}

func TestBidAcceptFlow(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "trader")
	bidder := createUser(t, db, "guitarist")
	listings := repo.NewListings(db)
	bids := repo.NewBids(db)

	listingID, err := listings.Create(validListingFields(), owner.ID)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	bidID, err := bids.Create(listingID, bidder.ID, repo.BidFields{OfferedItems: "Guitar", Message: "Barely used."})
	if err != nil {
		t.Fatalf("create bid: %v", err)
	}

	if err := bids.UpdateStatus(bidID, "accepted"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := bids.ForListing(listingID)
	if err != nil {
		t.Fatalf("forListing: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one bid, got %d", len(got))
	}
	if got[0].Status != "accepted" {
		t.Fatalf("expected accepted, got %q", got[0].Status)
	}
	if got[0].Bidder.Username != "guitarist" {
		t.Fatalf("expected bidder enrichment, got %+v", got[0].Bidder)
	}
}

func TestUpdateBidStatusValidation(t *testing.T) {
	db := testDB(t)
	bids := repo.NewBids(db)

	if err := bids.UpdateStatus(1, "haggling"); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("unknown status: expected ErrValidation, got %v", err)
	}
	if err := bids.UpdateStatus(999, "accepted"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("missing bid: expected ErrNotFound, got %v", err)
	}
}

func TestMineEmbedsListing(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "owner4")
	bidder := createUser(t, db, "bidder4")
	listings := repo.NewListings(db)
	bids := repo.NewBids(db)

	fields := validListingFields()
	fields.Title = "Record Player"
	listingID, err := listings.Create(fields, owner.ID)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if _, err := bids.Create(listingID, bidder.ID, repo.BidFields{OfferedItems: "Vinyl collection"}); err != nil {
		t.Fatalf("create bid: %v", err)
	}

	mine, err := bids.Mine(bidder.ID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected one bid, got %d", len(mine))
	}
	if mine[0].Listing.Title != "Record Player" {
		t.Fatalf("expected listing embed, got %+v", mine[0].Listing)
	}
}

func TestMineKeepsBidAfterListingDeleted(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "owner5")
	bidder := createUser(t, db, "bidder5")
	listings := repo.NewListings(db)
	bids := repo.NewBids(db)

	listingID, err := listings.Create(validListingFields(), owner.ID)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if _, err := bids.Create(listingID, bidder.ID, repo.BidFields{OfferedItems: "Skis"}); err != nil {
		t.Fatalf("create bid: %v", err)
	}
	if err := listings.Delete(listingID, "", 0); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	mine, err := bids.Mine(bidder.ID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected the bid to survive, got %d", len(mine))
	}
	if mine[0].Listing.ID != 0 {
		t.Fatalf("expected zero-valued listing embed, got %+v", mine[0].Listing)
	}
}
