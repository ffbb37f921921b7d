package models

import (
	"gorm.io/gorm"
)

// Room is a bookable unit of the guesthouse. Rooms with a Beds24RoomID are
// managed through the channel manager; rooms without one are local-only
// inventory and are always offered at NightlyPrice unless a confirmed
// reservation blocks them.
type Room struct {
	gorm.Model
	Slug         string  `json:"slug" gorm:"uniqueIndex;not null"`
	Name         string  `json:"name" gorm:"not null"`
	Description  string  `json:"description" gorm:"type:text"`
	NightlyPrice float64 `json:"nightlyPrice" gorm:"not null"`
	Capacity     int     `json:"capacity" gorm:"not null;default:2"`
	Beds24RoomID *string `json:"beds24RoomID" gorm:"column:beds24_room_id"`
	IsActive     *bool   `json:"isActive" gorm:"default:true"`

	Reservations []Reservation `json:"reservations,omitempty"`
}

// ChannelManaged reports whether the room is mapped to the channel manager.
func (r *Room) ChannelManaged() bool {
	return r.Beds24RoomID != nil && *r.Beds24RoomID != ""
}
