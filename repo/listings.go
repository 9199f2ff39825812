package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/theabhijithashok/ValueXChange/models"
)

const (
	minTitleLen = 3
	maxTitleLen = 100
	minDescLen  = 20
	maxDescLen  = 150
	minPrice    = 1
	maxPrice    = 100_000_000
	maxImages   = 3
)

// ownerDeletedReason is recorded when a listing is removed without an
// explicit reason (owner-initiated deletions).
const ownerDeletedReason = "Removed by owner"

// TakedownNotifier delivers the deletion reason to the listing owner.
// Implementations must be best-effort: a failed delivery is logged by the
// implementation and never surfaces to the caller.
type TakedownNotifier interface {
	ListingRemoved(ownerID, adminID uint, title, reason string)
}

// Listings is the listing repository. It performs no authorization checks;
// ownership is enforced by the calling layer.
type Listings struct {
	db     *gorm.DB
	notify TakedownNotifier
}

func NewListings(db *gorm.DB) *Listings {
	return &Listings{db: db}
}

// WithNotifier attaches the takedown notifier used on admin deletions.
func (r *Listings) WithNotifier(n TakedownNotifier) *Listings {
	r.notify = n
	return r
}

// ListingFields carries the caller-supplied listing attributes.
type ListingFields struct {
	Title       string
	Description string
	Category    string
	Price       float64
	Images      []string
	Location    string
}

func (f ListingFields) validate() error {
	if l := len(strings.TrimSpace(f.Title)); l < minTitleLen || l > maxTitleLen {
		return fmt.Errorf("%w: title must be %d-%d characters", ErrValidation, minTitleLen, maxTitleLen)
	}
	if l := len(strings.TrimSpace(f.Description)); l < minDescLen || l > maxDescLen {
		return fmt.Errorf("%w: description must be %d-%d characters", ErrValidation, minDescLen, maxDescLen)
	}
	if !slices.Contains(models.ListingCategories, f.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	}
	if f.Price < minPrice || f.Price > maxPrice {
		return fmt.Errorf("%w: price must be between %d and %d", ErrValidation, minPrice, maxPrice)
	}
	if len(f.Images) < 1 || len(f.Images) > maxImages {
		return fmt.Errorf("%w: listings need 1-%d images", ErrValidation, maxImages)
	}
	return nil
}

// Create validates the fields and writes a new active listing owned by
// ownerID. Nothing reaches the store when validation fails.
func (r *Listings) Create(fields ListingFields, ownerID uint) (uint, error) {
	if err := fields.validate(); err != nil {
		return 0, err
	}

	imagesJSON, _ := json.Marshal(fields.Images)

	listing := models.Listing{
		OwnerID:     ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		Price:       fields.Price,
		Images:      string(imagesJSON),
		Location:    fields.Location,
		Status:      "active",
	}

	if err := r.db.Create(&listing).Error; err != nil {
		return 0, err
	}
	return listing.ID, nil
}

// GetAll returns listings active-first ordered by recency. The category
// filter is pushed to the store; the search term is matched in-process as a
// case-insensitive substring over title, description and category. The scan
// is O(n) in listing count, acceptable without a full-text index.
func (r *Listings) GetAll(category, search string) ([]models.Listing, error) {
	q := r.db.Order("(status = 'active') DESC").Order("created_at DESC")
	if category != "" && category != "All" {
		q = q.Where("category = ?", category)
	}

	var listings []models.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}

	if search == "" {
		return listings, nil
	}

	term := strings.ToLower(search)
	matched := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), term) ||
			strings.Contains(strings.ToLower(l.Description), term) ||
			strings.Contains(strings.ToLower(l.Category), term) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

// GetOne resolves a listing with its owner's public fields embedded.
// Returns nil, not an error, when the listing does not exist.
func (r *Listings) GetOne(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Owner enrichment is a second lookup; a missing owner row leaves the
	// embedded struct zero-valued rather than failing the read.
	var owner models.User
	if err := r.db.Select("id, username, email, avatar_url, location").First(&owner, listing.OwnerID).Error; err == nil {
		listing.Owner = owner
	}

	return &listing, nil
}

// Update replaces the mutable fields of a listing. The owner field is never
// touched. Callers must authorize ownership before calling.
func (r *Listings) Update(id uint, fields ListingFields) error {
	if err := fields.validate(); err != nil {
		return err
	}

	var listing models.Listing
	err := r.db.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	imagesJSON, _ := json.Marshal(fields.Images)

	listing.Title = fields.Title
	listing.Description = fields.Description
	listing.Category = fields.Category
	listing.Price = fields.Price
	listing.Images = string(imagesJSON)
	listing.Location = fields.Location

	return r.db.Save(&listing).Error
}

// SetStatus changes the listing status (active, paused, traded).
func (r *Listings) SetStatus(id uint, status string) error {
	res := r.db.Model(&models.Listing{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete archives the listing and removes the active record. When a reason
// and acting admin are present the owner is messaged first, best-effort:
// delivery failure never blocks the deletion. The three writes are
// independent network calls; partial completion is tolerated.
func (r *Listings) Delete(id uint, reason string, adminID uint) error {
	var listing models.Listing
	err := r.db.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if reason != "" && adminID != 0 && listing.OwnerID != 0 && r.notify != nil {
		r.notify.ListingRemoved(listing.OwnerID, adminID, listing.Title, reason)
	}

	archiveReason := reason
	if archiveReason == "" {
		archiveReason = ownerDeletedReason
	}

	archive := models.ListingArchive{
		OriginalID:     listing.ID,
		OwnerID:        listing.OwnerID,
		Title:          listing.Title,
		Description:    listing.Description,
		Category:       listing.Category,
		Price:          listing.Price,
		Images:         listing.Images,
		Location:       listing.Location,
		Status:         listing.Status,
		ListedAt:       listing.CreatedAt,
		DeletedAt:      time.Now(),
		DeletionReason: archiveReason,
		DeletedBy:      adminID,
	}
	if err := r.db.Create(&archive).Error; err != nil {
		return err
	}

	return r.db.Delete(&models.Listing{}, id).Error
}

// GetMine lists a user's own listings by recency. No owner enrichment, the
// caller already knows the owner.
func (r *Listings) GetMine(ownerID uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}
