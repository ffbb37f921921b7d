package routes

import (
	"errors"

	"guesthouse-server/models"
	"guesthouse-server/services"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GET /api/admin/settings
func AdminGetSettings(ctx iris.Context) {
	settings, err := services.LoadSettings()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(settings)
}

type UpdateSettingsInput struct {
	TransferMaxPerDay    int    `json:"transferMaxPerDay" validate:"required,min=0"`
	TransferLimitEnabled *bool  `json:"transferLimitEnabled" validate:"required"`
	LaundryMaxPerDay     int    `json:"laundryMaxPerDay" validate:"required,min=0"`
	LaundryLimitEnabled  *bool  `json:"laundryLimitEnabled" validate:"required"`
	BusinessHoursOpen    string `json:"businessHoursOpen"`
	BusinessHoursClose   string `json:"businessHoursClose"`
}

// PUT /api/admin/settings
func AdminUpdateSettings(ctx iris.Context) {
	var input UpdateSettingsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var settings models.Settings
	err := storage.DB.First(&settings).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateInternalServerError(ctx)
			return
		}
		settings = models.DefaultSettings()
	}

	settings.TransferMaxPerDay = input.TransferMaxPerDay
	settings.TransferLimitEnabled = input.TransferLimitEnabled
	settings.LaundryMaxPerDay = input.LaundryMaxPerDay
	settings.LaundryLimitEnabled = input.LaundryLimitEnabled
	if input.BusinessHoursOpen != "" {
		settings.BusinessHoursOpen = input.BusinessHoursOpen
	}
	if input.BusinessHoursClose != "" {
		settings.BusinessHoursClose = input.BusinessHoursClose
	}

	if err := storage.DB.Save(&settings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// The limiter reads through a short-TTL cache; drop it so the new caps
	// apply on the next check.
	services.InvalidateSettingsCache()

	ctx.JSON(settings)
}
