package repo_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/theabhijithashok/ValueXChange/models"
	"github.com/theabhijithashok/ValueXChange/repo"
	"github.com/theabhijithashok/ValueXChange/services"
)

func TestCreateListingValidation(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "seller")
	r := repo.NewListings(db)

	cases := []struct {
		name   string
		mutate func(*repo.ListingFields)
	}{
		{"short title", func(f *repo.ListingFields) { f.Title = "ab" }},
		{"short description", func(f *repo.ListingFields) { f.Description = "too short" }},
		{"long description", func(f *repo.ListingFields) { f.Description = strings.Repeat("x", 151) }},
		{"bad category", func(f *repo.ListingFields) { f.Category = "Spaceships" }},
		{"zero price", func(f *repo.ListingFields) { f.Price = 0 }},
		{"price over cap", func(f *repo.ListingFields) { f.Price = 100_000_001 }},
		{"no images", func(f *repo.ListingFields) { f.Images = nil }},
		{"too many images", func(f *repo.ListingFields) { f.Images = []string{"a", "b", "c", "d"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validListingFields()
			tc.mutate(&fields)
			_, err := r.Create(fields, owner.ID)
			if !errors.Is(err, repo.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Nothing reached the store
	var count int64
	db.Model(&models.Listing{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no listings written, found %d", count)
	}
}

func TestCreateAndGetOneEmbedsOwner(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "u1")
	r := repo.NewListings(db)

	fields := validListingFields()
	fields.Title = "Bike"
	id, err := r.Create(fields, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listing, err := r.GetOne(id)
	if err != nil {
		t.Fatalf("getOne: %v", err)
	}
	if listing == nil {
		t.Fatal("expected listing, got nil")
	}
	if listing.Status != "active" {
		t.Fatalf("expected status active, got %q", listing.Status)
	}
	if listing.Owner.Username != "u1" {
		t.Fatalf("expected owner username u1, got %q", listing.Owner.Username)
	}
	if listing.Owner.Email != owner.Email {
		t.Fatalf("expected owner email embedded, got %q", listing.Owner.Email)
	}
}

func TestGetOneMissingReturnsNilNotError(t *testing.T) {
	db := testDB(t)
	r := repo.NewListings(db)

	listing, err := r.GetOne(999)
	if err != nil {
		t.Fatalf("expected nil error for missing listing, got %v", err)
	}
	if listing != nil {
		t.Fatalf("expected nil listing, got %+v", listing)
	}
}

func TestGetAllFilterAndSearch(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "seller2")
	r := repo.NewListings(db)

	books := validListingFields()
	books.Title = "Old Paperbacks"
	books.Category = "Books"
	if _, err := r.Create(books, owner.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	bike := validListingFields()
	bike.Title = "Trail Bike"
	if _, err := r.Create(bike, owner.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.GetAll("Books", "")
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Old Paperbacks" {
		t.Fatalf("category filter failed: %+v", got)
	}

	// Search is case-insensitive and matches title, description or category
	got, err = r.GetAll("", "TRAIL")
	if err != nil {
		t.Fatalf("getAll search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Trail Bike" {
		t.Fatalf("search failed: %+v", got)
	}

	got, err = r.GetAll("", "vehic")
	if err != nil {
		t.Fatalf("getAll category search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected category substring match, got %+v", got)
	}
}

func TestDeleteArchivesThenRemoves(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "archiveowner")
	r := repo.NewListings(db)

	id, err := r.Create(validListingFields(), owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := r.Delete(id, "", 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	listing, err := r.GetOne(id)
	if err != nil {
		t.Fatalf("getOne after delete: %v", err)
	}
	if listing != nil {
		t.Fatalf("expected nil after delete, got %+v", listing)
	}

	var archived []models.ListingArchive
	db.Where("original_id = ?", id).Find(&archived)
	if len(archived) != 1 {
		t.Fatalf("expected exactly one archive row, got %d", len(archived))
	}
	if archived[0].DeletionReason == "" {
		t.Fatal("expected a non-empty deletion reason")
	}
	if archived[0].DeletedBy != 0 {
		t.Fatalf("owner-initiated delete should record DeletedBy=0, got %d", archived[0].DeletedBy)
	}
}

func TestAdminDeleteNotifiesOwnerBeforeArchival(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "victim")
	admin := createUser(t, db, "moderator")

	chat := repo.NewChat(db)
	r := repo.NewListings(db).WithNotifier(services.NewModerationNotifier(chat))

	fields := validListingFields()
	fields.Title = "Counterfeit Watch"
	id, err := r.Create(fields, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := r.Delete(id, "Prohibited item", admin.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The admin-owner conversation carries the reason
	conv, err := chat.CreateConversation(admin.ID, owner.ID)
	if err != nil {
		t.Fatalf("conversation lookup: %v", err)
	}
	msgs, err := chat.Messages(conv.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one takedown message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Text, "Prohibited item") {
		t.Fatalf("takedown message missing reason: %q", msgs[0].Text)
	}

	var archived models.ListingArchive
	if err := db.Where("original_id = ?", id).First(&archived).Error; err != nil {
		t.Fatalf("archive row: %v", err)
	}
	if archived.DeletionReason != "Prohibited item" {
		t.Fatalf("expected reason recorded, got %q", archived.DeletionReason)
	}
	if archived.DeletedBy != admin.ID {
		t.Fatalf("expected DeletedBy=%d, got %d", admin.ID, archived.DeletedBy)
	}
}

func TestGetMine(t *testing.T) {
	db := testDB(t)
	a := createUser(t, db, "minea")
	b := createUser(t, db, "mineb")
	r := repo.NewListings(db)

	if _, err := r.Create(validListingFields(), a.ID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(validListingFields(), b.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := r.GetMine(a.ID)
	if err != nil {
		t.Fatalf("getMine: %v", err)
	}
	if len(mine) != 1 || mine[0].OwnerID != a.ID {
		t.Fatalf("expected only a's listings, got %+v", mine)
	}
}
