package routes

import (
	"guesthouse-server/models"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"github.com/kataras/iris/v12"
)

// Room catalogue. Listing is public (the booking site reads it); mutation is
// admin-only and registered behind the JWT verifier in main.

func GetRooms(ctx iris.Context) {
	var rooms []models.Room
	res := storage.DB.
		Where("is_active IS NULL OR is_active = ?", true).
		Order("id").
		Find(&rooms)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}
	ctx.JSON(rooms)
}

func GetRoomByID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var room models.Room
	if err := storage.DB.First(&room, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}
	ctx.JSON(room)
}

type RoomInput struct {
	Slug         string  `json:"slug" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	NightlyPrice float64 `json:"nightlyPrice" validate:"required,min=0"`
	Capacity     int     `json:"capacity" validate:"required,min=1"`
	Beds24RoomID *string `json:"beds24RoomID"`
	IsActive     *bool   `json:"isActive"`
}

func CreateRoom(ctx iris.Context) {
	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room := models.Room{
		Slug:         input.Slug,
		Name:         input.Name,
		Description:  input.Description,
		NightlyPrice: input.NightlyPrice,
		Capacity:     input.Capacity,
		Beds24RoomID: input.Beds24RoomID,
		IsActive:     input.IsActive,
	}

	if err := storage.DB.Create(&room).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create room", ctx)
		return
	}
	ctx.JSON(room)
}

func UpdateRoom(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var room models.Room
	if err := storage.DB.First(&room, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}

	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room.Slug = input.Slug
	room.Name = input.Name
	room.Description = input.Description
	room.NightlyPrice = input.NightlyPrice
	room.Capacity = input.Capacity
	room.Beds24RoomID = input.Beds24RoomID
	if input.IsActive != nil {
		room.IsActive = input.IsActive
	}

	if err := storage.DB.Save(&room).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update room", ctx)
		return
	}
	ctx.JSON(room)
}

// DeactivateRoom hides a room from search without touching its history.
func DeactivateRoom(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var room models.Room
	if err := storage.DB.First(&room, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}

	inactive := false
	room.IsActive = &inactive
	if err := storage.DB.Save(&room).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to deactivate room", ctx)
		return
	}
	ctx.JSON(iris.Map{"ok": true})
}
