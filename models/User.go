package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username       string         `json:"username" gorm:"size:20;uniqueIndex"`
	Email          string         `json:"email" gorm:"uniqueIndex"`
	Password       string         `json:"-"`
	SocialLogin    bool           `json:"socialLogin"`
	SocialProvider string         `json:"socialProvider"`
	AvatarURL      string         `json:"avatarURL"`
	Location       string         `json:"location"`
	Wishlist       datatypes.JSON `json:"wishlist"`
	Role           string         `json:"role" gorm:"type:varchar(20);default:user;index"`     // user, admin
	Status         string         `json:"status" gorm:"type:varchar(20);default:active;index"` // active, blocked
	Listings       []Listing      `json:"listings,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling so the wishlist JSON column renders as an id array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Wishlist []uint    `json:"wishlist"`
		Listings []Listing `json:"listings,omitempty"`
		*Alias
	}{
		Wishlist: []uint{},
		Alias:    (*Alias)(u),
	}

	if u.Wishlist != nil {
		var ids []uint
		if err := json.Unmarshal(u.Wishlist, &ids); err == nil {
			aux.Wishlist = ids
		}
	}

	// Listings excluded to prevent circular reference
	aux.Listings = nil

	return json.Marshal(aux)
}
