package services

import (
	"testing"
	"time"

	"guesthouse-server/models"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestFreeRoomIDsExcludesOverlappingConfirmed(t *testing.T) {
	db := setupTestDB(t)

	roomA := models.Room{Slug: "a", Name: "A", NightlyPrice: 100, Capacity: 2}
	roomB := models.Room{Slug: "b", Name: "B", NightlyPrice: 100, Capacity: 2}
	require.NoError(t, db.Create(&roomA).Error)
	require.NoError(t, db.Create(&roomB).Error)

	require.NoError(t, db.Create(&models.Reservation{
		RoomID: roomA.ID, CheckIn: day(10), CheckOut: day(14),
		GuestName: "G", GuestEmail: "g@example.com",
		Status: models.ReservationConfirmed,
	}).Error)

	free, err := FreeRoomIDs(day(12), day(16))
	require.NoError(t, err)

	require.False(t, free[roomA.ID], "overlapping confirmed reservation must block room A")
	require.True(t, free[roomB.ID], "room B has no reservations")
}

func TestFreeRoomIDsAllowsSameDayTurnover(t *testing.T) {
	db := setupTestDB(t)

	room := models.Room{Slug: "a", Name: "A", NightlyPrice: 100, Capacity: 2}
	require.NoError(t, db.Create(&room).Error)

	// Existing guest checks out on the 14th; new guest wants to check in the 14th.
	require.NoError(t, db.Create(&models.Reservation{
		RoomID: room.ID, CheckIn: day(10), CheckOut: day(14),
		GuestName: "G", GuestEmail: "g@example.com",
		Status: models.ReservationConfirmed,
	}).Error)

	free, err := FreeRoomIDs(day(14), day(16))
	require.NoError(t, err)
	require.True(t, free[room.ID], "half-open windows must allow same-day turnover")
}

func TestFreeRoomIDsIgnoresPendingAndCancelled(t *testing.T) {
	db := setupTestDB(t)

	room := models.Room{Slug: "a", Name: "A", NightlyPrice: 100, Capacity: 2}
	require.NoError(t, db.Create(&room).Error)

	for _, status := range []string{models.ReservationPending, models.ReservationCancelled} {
		require.NoError(t, db.Create(&models.Reservation{
			RoomID: room.ID, CheckIn: day(10), CheckOut: day(14),
			GuestName: "G", GuestEmail: "g@example.com",
			Status: status,
		}).Error)
	}

	free, err := FreeRoomIDs(day(11), day(13))
	require.NoError(t, err)
	require.True(t, free[room.ID], "only confirmed reservations block")
}

func TestFreeRoomIDsSkipsInactiveRooms(t *testing.T) {
	db := setupTestDB(t)

	inactive := false
	room := models.Room{Slug: "a", Name: "A", NightlyPrice: 100, Capacity: 2, IsActive: &inactive}
	require.NoError(t, db.Create(&room).Error)

	free, err := FreeRoomIDs(day(10), day(12))
	require.NoError(t, err)
	require.NotContains(t, free, room.ID)
}

func TestCountConflicts(t *testing.T) {
	db := setupTestDB(t)

	room := models.Room{Slug: "a", Name: "A", NightlyPrice: 100, Capacity: 2}
	require.NoError(t, db.Create(&room).Error)

	require.NoError(t, db.Create(&models.Reservation{
		RoomID: room.ID, CheckIn: day(10), CheckOut: day(14),
		GuestName: "G", GuestEmail: "g@example.com",
		Status: models.ReservationConfirmed,
	}).Error)

	n, err := CountConflicts(db, room.ID, day(13), day(15))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = CountConflicts(db, room.ID, day(14), day(16))
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "touching windows do not conflict")
}
