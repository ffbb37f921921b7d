package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service booking types. Transfers and laundry are subject to the daily
// capacity limiter; excursions are uncapped.
const (
	ServiceTransfer  = "transfer"
	ServiceLaundry   = "laundry"
	ServiceExcursion = "excursion"
)

const (
	ServiceBookingConfirmed = "confirmed"
	ServiceBookingCancelled = "cancelled"
)

// ServiceBooking covers airport transfers, laundry pickups and excursions.
// Details holds a typed payload that varies by Type; use ParseDetails to read
// it back rather than unmarshalling ad hoc.
type ServiceBooking struct {
	gorm.Model
	ConfirmationCode string `json:"confirmationCode" gorm:"index"`

	Type          string         `json:"type" gorm:"type:varchar(20);not null;index"`
	GuestName     string         `json:"guestName" gorm:"not null"`
	GuestEmail    string         `json:"guestEmail" gorm:"not null"`
	GuestPhone    string         `json:"guestPhone"`
	Date          time.Time      `json:"date" gorm:"not null;index"`
	Details       datatypes.JSON `json:"details" gorm:"type:jsonb"`
	TotalPrice    float64        `json:"totalPrice"`
	Status        string         `json:"status" gorm:"type:varchar(20);default:'confirmed'"`
	ReservationID *uint          `json:"reservationID"`

	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}

// TransferDetails describes an airport transfer.
type TransferDetails struct {
	FlightNumber string `json:"flightNumber"`
	FlightTime   string `json:"flightTime"`
	Direction    string `json:"direction"` // arrival, departure
	Passengers   int    `json:"passengers"`
}

// LaundryDetails describes a laundry pickup.
type LaundryDetails struct {
	Bags  int    `json:"bags"`
	Notes string `json:"notes"`
}

// ExcursionDetails describes an excursion booking.
type ExcursionDetails struct {
	Excursion    string `json:"excursion"`
	Participants int    `json:"participants"`
}

var ErrInvalidDetails = errors.New("invalid service booking details")

// Validate checks the payload for the fields the back office depends on.
func (d TransferDetails) Validate() error {
	if d.Direction != "arrival" && d.Direction != "departure" {
		return fmt.Errorf("%w: direction must be arrival or departure", ErrInvalidDetails)
	}
	if d.Passengers < 1 {
		return fmt.Errorf("%w: passengers must be at least 1", ErrInvalidDetails)
	}
	return nil
}

func (d LaundryDetails) Validate() error {
	if d.Bags < 1 {
		return fmt.Errorf("%w: bags must be at least 1", ErrInvalidDetails)
	}
	return nil
}

func (d ExcursionDetails) Validate() error {
	if d.Excursion == "" {
		return fmt.Errorf("%w: excursion name is required", ErrInvalidDetails)
	}
	if d.Participants < 1 {
		return fmt.Errorf("%w: participants must be at least 1", ErrInvalidDetails)
	}
	return nil
}

// EncodeDetails validates the typed payload for the given service type and
// serializes it for storage. The payload type must match the service type.
func EncodeDetails(serviceType string, payload any) (datatypes.JSON, error) {
	switch serviceType {
	case ServiceTransfer:
		d, ok := payload.(TransferDetails)
		if !ok {
			return nil, fmt.Errorf("%w: expected transfer details", ErrInvalidDetails)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(d)
		return datatypes.JSON(raw), err
	case ServiceLaundry:
		d, ok := payload.(LaundryDetails)
		if !ok {
			return nil, fmt.Errorf("%w: expected laundry details", ErrInvalidDetails)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(d)
		return datatypes.JSON(raw), err
	case ServiceExcursion:
		d, ok := payload.(ExcursionDetails)
		if !ok {
			return nil, fmt.Errorf("%w: expected excursion details", ErrInvalidDetails)
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(d)
		return datatypes.JSON(raw), err
	}
	return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidDetails, serviceType)
}

// ParseDetails decodes Details into the typed struct matching Type.
// Returns one of TransferDetails, LaundryDetails or ExcursionDetails.
func (b *ServiceBooking) ParseDetails() (any, error) {
	switch b.Type {
	case ServiceTransfer:
		var d TransferDetails
		if err := json.Unmarshal(b.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDetails, err)
		}
		return d, nil
	case ServiceLaundry:
		var d LaundryDetails
		if err := json.Unmarshal(b.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDetails, err)
		}
		return d, nil
	case ServiceExcursion:
		var d ExcursionDetails
		if err := json.Unmarshal(b.Details, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDetails, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidDetails, b.Type)
}
