package routes

import (
	"log"

	"guesthouse-server/models"
	"guesthouse-server/services"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"github.com/kataras/iris/v12"
)

// SearchAvailability handles
// GET /api/availability?arrival=YYYY-MM-DD&departure=YYYY-MM-DD&numAdults=N&preferred_room_id=<id-or-slug>
//
// The conflict checker and the channel manager are queried in parallel; the
// local reservation store always wins: a locally-taken room is unavailable
// no matter what the channel reports.
func SearchAvailability(ctx iris.Context) {
	arrivalStr := ctx.URLParam("arrival")
	departureStr := ctx.URLParam("departure")
	if arrivalStr == "" || departureStr == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "arrival and departure are required", ctx)
		return
	}

	arrival, err := utils.ParseDate(arrivalStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "arrival must be YYYY-MM-DD", ctx)
		return
	}
	departure, err := utils.ParseDate(departureStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "departure must be YYYY-MM-DD", ctx)
		return
	}
	if !arrival.Before(departure) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "arrival must be before departure", ctx)
		return
	}

	numAdults := ctx.URLParamIntDefault("numAdults", 2)
	preferred := ctx.URLParam("preferred_room_id")

	var rooms []models.Room
	if err := storage.DB.
		Where("is_active IS NULL OR is_active = ?", true).
		Order("id").
		Find(&rooms).Error; err != nil {
		log.Printf("availability: room query failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	externalIDs := make([]string, 0, len(rooms))
	for i := range rooms {
		if rooms[i].ChannelManaged() {
			externalIDs = append(externalIDs, *rooms[i].Beds24RoomID)
		}
	}

	type freeRooms struct {
		free map[uint]bool
		err  error
	}
	freeCh := make(chan freeRooms, 1)
	go func() {
		free, err := services.FreeRoomIDs(arrival, departure)
		freeCh <- freeRooms{free: free, err: err}
	}()

	external := channel.GetAvailability(arrival, departure, numAdults, externalIDs)

	local := <-freeCh
	if local.err != nil {
		log.Printf("availability: conflict check failed: %v", local.err)
		utils.CreateInternalServerError(ctx)
		return
	}

	merged := services.MergeAvailability(rooms, external)
	for i := range merged {
		if !local.free[merged[i].ID] {
			merged[i].Available = false
		}
	}

	result := services.RankForRequest(merged, preferred)
	ctx.JSON(result)
}
