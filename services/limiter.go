package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"guesthouse-server/models"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"gorm.io/gorm"
)

const (
	settingsCacheKey = "settings:v1"
	settingsCacheTTL = 5 * time.Second
)

var limiterCtx = context.Background()

// LimitResult tells a caller whether a capped service can take one more
// booking on a given day, with the counts needed for an "X/Y slots used"
// message.
type LimitResult struct {
	Allowed bool `json:"allowed"`
	Current int  `json:"current"`
	Max     int  `json:"max"`
	Enabled bool `json:"enabled"`
}

// LoadSettings reads the settings row, defaulting when the table is empty.
// When Redis is configured the read goes through a 5s cache: admin changes
// still land within one TTL, and the per-check database read is saved.
func LoadSettings() (models.Settings, error) {
	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(limiterCtx, settingsCacheKey).Result(); err == nil {
			var s models.Settings
			if err := json.Unmarshal([]byte(cached), &s); err == nil {
				return s, nil
			}
		}
	}

	var s models.Settings
	err := storage.DB.First(&s).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Settings{}, err
		}
		s = models.DefaultSettings()
	}

	if storage.Redis != nil {
		if raw, err := json.Marshal(s); err == nil {
			if err := storage.Redis.Set(limiterCtx, settingsCacheKey, raw, settingsCacheTTL).Err(); err != nil {
				log.Printf("limiter: settings cache write failed: %v", err)
			}
		}
	}
	return s, nil
}

// InvalidateSettingsCache drops the cached settings after an admin update.
func InvalidateSettingsCache() {
	if storage.Redis != nil {
		if err := storage.Redis.Del(limiterCtx, settingsCacheKey).Err(); err != nil {
			log.Printf("limiter: settings cache invalidation failed: %v", err)
		}
	}
}

// CountDailyBookings counts non-cancelled service bookings of a type whose
// date falls on the calendar day of date, inclusive on both day bounds.
// Runs on the given handle so the booking writer can re-check in its
// transaction.
func CountDailyBookings(db *gorm.DB, serviceType string, date time.Time) (int64, error) {
	start, end := utils.DayBounds(date)
	var count int64
	err := db.Model(&models.ServiceBooking{}).
		Where("type = ? AND status <> ? AND date BETWEEN ? AND ?",
			serviceType, models.ServiceBookingCancelled, start, end).
		Count(&count).Error
	return count, err
}

// CheckDailyLimit applies the per-day cap for transfer and laundry bookings.
// Settings are read fresh (or within one cache TTL) so admin changes apply
// immediately. Uncapped types are always allowed.
func CheckDailyLimit(serviceType string, date time.Time) (LimitResult, error) {
	settings, err := LoadSettings()
	if err != nil {
		return LimitResult{}, err
	}

	max, enabled := settings.CapFor(serviceType)
	if !enabled {
		return LimitResult{Allowed: true, Current: 0, Max: 999, Enabled: false}, nil
	}

	count, err := CountDailyBookings(storage.DB, serviceType, date)
	if err != nil {
		return LimitResult{}, err
	}

	return LimitResult{
		Allowed: count < int64(max),
		Current: int(count),
		Max:     max,
		Enabled: true,
	}, nil
}
