package models

import (
	"gorm.io/gorm"
)

// Settings is a single-row table holding the per-service daily caps and
// business hours. It is read fresh on every limiter check (optionally through
// a short-TTL cache) so admin changes take effect immediately.
type Settings struct {
	gorm.Model
	TransferMaxPerDay    int    `json:"transferMaxPerDay" gorm:"default:6"`
	TransferLimitEnabled *bool  `json:"transferLimitEnabled" gorm:"default:true"`
	LaundryMaxPerDay     int    `json:"laundryMaxPerDay" gorm:"default:10"`
	LaundryLimitEnabled  *bool  `json:"laundryLimitEnabled" gorm:"default:true"`
	BusinessHoursOpen    string `json:"businessHoursOpen" gorm:"type:varchar(10);default:'08:00'"`
	BusinessHoursClose   string `json:"businessHoursClose" gorm:"type:varchar(10);default:'20:00'"`
}

// DefaultSettings are used when the settings table is empty.
func DefaultSettings() Settings {
	t := true
	return Settings{
		TransferMaxPerDay:    6,
		TransferLimitEnabled: &t,
		LaundryMaxPerDay:     10,
		LaundryLimitEnabled:  &t,
		BusinessHoursOpen:    "08:00",
		BusinessHoursClose:   "20:00",
	}
}

// CapFor returns the configured cap and enabled flag for a capped service
// type. Unknown types are uncapped.
func (s *Settings) CapFor(serviceType string) (max int, enabled bool) {
	switch serviceType {
	case ServiceTransfer:
		return s.TransferMaxPerDay, s.TransferLimitEnabled == nil || *s.TransferLimitEnabled
	case ServiceLaundry:
		return s.LaundryMaxPerDay, s.LaundryLimitEnabled == nil || *s.LaundryLimitEnabled
	}
	return 0, false
}
