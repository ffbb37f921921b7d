package services

import (
	"testing"
	"time"

	"guesthouse-server/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func serviceDay() time.Time {
	return time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
}

func createServiceBookings(t *testing.T, db *gorm.DB, serviceType string, date time.Time, n int) {
	t.Helper()
	details, err := models.EncodeDetails(serviceType, detailsFor(serviceType))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.ServiceBooking{
			Type: serviceType, GuestName: "G", GuestEmail: "g@example.com",
			Date: date, Details: details, Status: models.ServiceBookingConfirmed,
		}).Error)
	}
}

func detailsFor(serviceType string) any {
	switch serviceType {
	case models.ServiceTransfer:
		return models.TransferDetails{Direction: "arrival", Passengers: 2, FlightNumber: "AA123"}
	case models.ServiceLaundry:
		return models.LaundryDetails{Bags: 2}
	}
	return models.ExcursionDetails{Excursion: "island", Participants: 2}
}

func TestDefaultSettingsWhenTableEmpty(t *testing.T) {
	setupTestDB(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, 6, s.TransferMaxPerDay)
	require.Equal(t, 10, s.LaundryMaxPerDay)
}

func TestCapRespectedSequentially(t *testing.T) {
	db := setupTestDB(t)

	enabled := true
	require.NoError(t, db.Create(&models.Settings{
		LaundryMaxPerDay: 3, LaundryLimitEnabled: &enabled,
		TransferMaxPerDay: 6, TransferLimitEnabled: &enabled,
	}).Error)

	for i := 0; i < 3; i++ {
		limit, err := CheckDailyLimit(models.ServiceLaundry, serviceDay())
		require.NoError(t, err)
		require.True(t, limit.Allowed, "booking %d should be allowed", i+1)
		require.Equal(t, i, limit.Current)
		createServiceBookings(t, db, models.ServiceLaundry, serviceDay(), 1)
	}

	limit, err := CheckDailyLimit(models.ServiceLaundry, serviceDay())
	require.NoError(t, err)
	require.False(t, limit.Allowed)
	require.Equal(t, 3, limit.Current)
	require.Equal(t, 3, limit.Max)
	require.True(t, limit.Enabled)
}

func TestDisabledLimiterAlwaysAllows(t *testing.T) {
	db := setupTestDB(t)

	disabled := false
	enabled := true
	require.NoError(t, db.Create(&models.Settings{
		LaundryMaxPerDay: 1, LaundryLimitEnabled: &disabled,
		TransferMaxPerDay: 6, TransferLimitEnabled: &enabled,
	}).Error)

	createServiceBookings(t, db, models.ServiceLaundry, serviceDay(), 5)

	limit, err := CheckDailyLimit(models.ServiceLaundry, serviceDay())
	require.NoError(t, err)
	require.True(t, limit.Allowed)
	require.False(t, limit.Enabled)
}

func TestCountIsScopedToTypeAndDay(t *testing.T) {
	db := setupTestDB(t)

	createServiceBookings(t, db, models.ServiceLaundry, serviceDay(), 2)
	createServiceBookings(t, db, models.ServiceTransfer, serviceDay(), 3)
	createServiceBookings(t, db, models.ServiceLaundry, serviceDay().AddDate(0, 0, 1), 4)

	count, err := CountDailyBookings(db, models.ServiceLaundry, serviceDay())
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCancelledBookingsDoNotCountAgainstCap(t *testing.T) {
	db := setupTestDB(t)

	details, err := models.EncodeDetails(models.ServiceLaundry, models.LaundryDetails{Bags: 1})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.ServiceBooking{
		Type: models.ServiceLaundry, GuestName: "G", GuestEmail: "g@example.com",
		Date: serviceDay(), Details: details, Status: models.ServiceBookingCancelled,
	}).Error)

	count, err := CountDailyBookings(db, models.ServiceLaundry, serviceDay())
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}
