package repo

import (
	"encoding/json"
	"errors"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/theabhijithashok/ValueXChange/models"
)

// Wishlist maintains the per-user saved-listing set. The whole set is
// replaced on every write (last-write-wins): two tabs toggling concurrently
// can silently drop one change. Known limitation, kept as designed.
type Wishlist struct {
	db *gorm.DB
}

func NewWishlist(db *gorm.DB) *Wishlist {
	return &Wishlist{db: db}
}

// ToggleResult tells the caller whether the optimistic mutation stuck.
// When Applied is false the persisted set was left untouched and Reason
// says why, so callers can revert their local state.
type ToggleResult struct {
	Set     []uint `json:"set"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Toggle flips listingID's membership in current and persists the full
// replacement set on the user record.
func (w *Wishlist) Toggle(userID, listingID uint, current []uint) ToggleResult {
	var next []uint
	if slices.Contains(current, listingID) {
		next = make([]uint, 0, len(current))
		for _, id := range current {
			if id != listingID {
				next = append(next, id)
			}
		}
	} else {
		next = append(append([]uint{}, current...), listingID)
	}

	marshalled, err := json.Marshal(next)
	if err != nil {
		return ToggleResult{Set: current, Applied: false, Reason: err.Error()}
	}

	res := w.db.Model(&models.User{}).Where("id = ?", userID).Update("wishlist", marshalled)
	if res.Error != nil {
		return ToggleResult{Set: current, Applied: false, Reason: res.Error.Error()}
	}
	if res.RowsAffected == 0 {
		return ToggleResult{Set: current, Applied: false, Reason: "user not found"}
	}

	return ToggleResult{Set: next, Applied: true}
}

// Load reads the persisted set off the user record.
func (w *Wishlist) Load(userID uint) ([]uint, error) {
	var user models.User
	err := w.db.Select("id, wishlist").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ids []uint
	if user.Wishlist != nil {
		if err := json.Unmarshal(user.Wishlist, &ids); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Resolve fetches each referenced listing. Ids that no longer resolve are
// treated as already removed and silently dropped; a dangling reference is
// never an error.
func (w *Wishlist) Resolve(set []uint) ([]models.Listing, error) {
	listings := make([]models.Listing, 0, len(set))
	for _, id := range set {
		var listing models.Listing
		err := w.db.First(&listing, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
