package services

import (
	"time"

	"guesthouse-server/models"
	"guesthouse-server/storage"

	"gorm.io/gorm"
)

// CountConflicts counts confirmed reservations on a room overlapping the
// half-open window [checkIn, checkOut). Runs on the given handle so the
// booking writer can re-check inside its transaction.
func CountConflicts(db *gorm.DB, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	return CountConflictsExcluding(db, roomID, 0, checkIn, checkOut)
}

// CountConflictsExcluding is CountConflicts minus one reservation, so a
// status transition can check a reservation's window against everyone else
// without colliding with its own row. excludeID 0 excludes nothing.
func CountConflictsExcluding(db *gorm.DB, roomID, excludeID uint, checkIn, checkOut time.Time) (int64, error) {
	q := db.Model(&models.Reservation{}).
		Where("room_id = ? AND status = ? AND check_in < ? AND check_out > ?",
			roomID, models.ReservationConfirmed, checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var conflicts int64
	err := q.Count(&conflicts).Error
	return conflicts, err
}

// FreeRoomIDs returns the set of active room ids with no confirmed
// reservation overlapping [checkIn, checkOut). Pending and cancelled
// reservations never block. Pure read.
func FreeRoomIDs(checkIn, checkOut time.Time) (map[uint]bool, error) {
	var roomIDs []uint
	if err := storage.DB.Model(&models.Room{}).
		Where("is_active IS NULL OR is_active = ?", true).
		Pluck("id", &roomIDs).Error; err != nil {
		return nil, err
	}

	var conflicting []uint
	if err := storage.DB.Model(&models.Reservation{}).
		Where("status = ? AND check_in < ? AND check_out > ?",
			models.ReservationConfirmed, checkOut, checkIn).
		Distinct().
		Pluck("room_id", &conflicting).Error; err != nil {
		return nil, err
	}

	taken := make(map[uint]bool, len(conflicting))
	for _, id := range conflicting {
		taken[id] = true
	}

	free := make(map[uint]bool, len(roomIDs))
	for _, id := range roomIDs {
		if !taken[id] {
			free[id] = true
		}
	}
	return free, nil
}
