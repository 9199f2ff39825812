package models

import (
	"encoding/json"
	"time"
)

// Listing categories accepted at creation time.
var ListingCategories = []string{
	"Electronics",
	"Furniture",
	"Books",
	"Clothing",
	"Vehicles",
	"Services",
	"Other",
}

type Listing struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"ownerID" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:100"`
	Description string    `json:"description" gorm:"size:150"`
	Category    string    `json:"category" gorm:"size:32;index"`
	Price       float64   `json:"price"`
	Images      string    `json:"images" gorm:"type:text"` // JSON array of data-URL strings
	Location    string    `json:"location"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:active;index"` // active, paused, traded
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Owner User `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to render the Images column as an array and to
// only embed the owner when it was actually loaded
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		Images []string `json:"images"`
		Owner  *User    `json:"owner,omitempty"`
		*Alias
	}{
		Images: []string{},
		Alias:  (*Alias)(l),
	}

	if l.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(l.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if l.Owner.ID > 0 {
		ownerCopy := l.Owner
		ownerCopy.Listings = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

// ListingArchive retains a full copy of a deleted listing together with the
// deletion metadata. Rows are written before the active record is removed.
type ListingArchive struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OriginalID     uint      `json:"originalID" gorm:"index;not null"`
	OwnerID        uint      `json:"ownerID" gorm:"index"`
	Title          string    `json:"title" gorm:"size:100"`
	Description    string    `json:"description" gorm:"size:150"`
	Category       string    `json:"category" gorm:"size:32"`
	Price          float64   `json:"price"`
	Images         string    `json:"images" gorm:"type:text"`
	Location       string    `json:"location"`
	Status         string    `json:"status" gorm:"type:varchar(20)"`
	ListedAt       time.Time `json:"listedAt"`
	DeletedAt      time.Time `json:"deletedAt"`
	DeletionReason string    `json:"deletionReason" gorm:"type:text"`
	DeletedBy      uint      `json:"deletedBy" gorm:"index"` // acting admin id, 0 when owner-initiated
}
