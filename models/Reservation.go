package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. Cancellation is a status change; rows are never
// hard-deleted in the normal flow.
const (
	ReservationConfirmed = "confirmed"
	ReservationPending   = "pending"
	ReservationCancelled = "cancelled"
)

// Reservation is a room booking. The [CheckIn, CheckOut) window is half-open:
// a guest checking out on day D does not conflict with one checking in on D.
type Reservation struct {
	gorm.Model
	ConfirmationCode string `json:"confirmationCode" gorm:"index"`

	RoomID     uint      `json:"roomID" gorm:"not null;index"`
	CheckIn    time.Time `json:"checkIn" gorm:"not null;index"`
	CheckOut   time.Time `json:"checkOut" gorm:"not null;index"`
	GuestName  string    `json:"guestName" gorm:"not null"`
	GuestEmail string    `json:"guestEmail" gorm:"not null"`
	GuestPhone string    `json:"guestPhone"`
	NumGuests  int       `json:"numGuests" gorm:"default:1"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'confirmed';index"`
	Note       string    `json:"note"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
