package routes

import (
	"net/http"
	"time"

	"guesthouse-server/models"
	"guesthouse-server/services"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GET /api/admin/reservations
func AdminListReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	roomID := ctx.URLParamDefault("room_id", "")
	dateFrom := ctx.URLParamDefault("date_from", "")
	dateTo := ctx.URLParamDefault("date_to", "")

	q := storage.DB.Model(&models.Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if roomID != "" {
		q = q.Where("room_id = ?", roomID)
	}
	if dateFrom != "" {
		if t, err := utils.ParseDate(dateFrom); err == nil {
			q = q.Where("check_in >= ?", t)
		}
	}
	if dateTo != "" {
		if t, err := utils.ParseDate(dateTo); err == nil {
			q = q.Where("check_out <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.Reservation
	if err := q.Preload("Room").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /api/admin/service-bookings
func AdminListServiceBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	serviceType := ctx.URLParamDefault("type", "")
	status := ctx.URLParamDefault("status", "")
	date := ctx.URLParamDefault("date", "")

	q := storage.DB.Model(&models.ServiceBooking{})
	if serviceType != "" {
		q = q.Where("type = ?", serviceType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if date != "" {
		if t, err := utils.ParseDate(date); err == nil {
			start, end := utils.DayBounds(t)
			q = q.Where("date BETWEEN ? AND ?", start, end)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.ServiceBooking
	if err := q.Preload("Reservation").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed pending cancelled"`
}

// PATCH /api/admin/reservations/{id}/status — cancellation is a status
// change, never a delete.
func AdminUpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateReservationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	// Confirming is subject to the same overlap rule as booking: the window
	// must be clear of every other confirmed reservation on the room.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if input.Status == models.ReservationConfirmed && reservation.Status != models.ReservationConfirmed {
			conflicts, err := services.CountConflictsExcluding(tx, reservation.RoomID, reservation.ID, reservation.CheckIn, reservation.CheckOut)
			if err != nil {
				return err
			}
			if conflicts > 0 {
				return errRoomTaken
			}
		}
		reservation.Status = input.Status
		reservation.UpdatedAt = time.Now()
		return tx.Save(&reservation).Error
	})
	if txErr == errRoomTaken {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "another confirmed reservation overlaps these dates")
		return
	}
	if txErr != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", txErr.Error())
		return
	}
	ctx.JSON(reservation)
}
