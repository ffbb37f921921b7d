package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"guesthouse-server/models"
	"guesthouse-server/services"
	"guesthouse-server/storage"
	"guesthouse-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransferAddOnInput struct {
	FlightNumber string  `json:"flightNumber"`
	FlightTime   string  `json:"flightTime"`
	Direction    string  `json:"direction"`
	Passengers   int     `json:"passengers"`
	Price        float64 `json:"price"`
}

type CreateBookingInput struct {
	Type       string `json:"type" validate:"required,oneof=room transfer laundry excursion"`
	GuestName  string `json:"guestName" validate:"required"`
	GuestEmail string `json:"guestEmail" validate:"required,email"`
	GuestPhone string `json:"guestPhone"`

	// Room bookings
	RoomID    uint                `json:"roomID"`
	CheckIn   string              `json:"checkIn"`
	CheckOut  string              `json:"checkOut"`
	NumGuests int                 `json:"numGuests"`
	Note      string              `json:"note"`
	Transfer  *TransferAddOnInput `json:"transfer"`

	// Service bookings (transfer, laundry, excursion)
	Date    string          `json:"date"`
	Details json.RawMessage `json:"details"`

	TotalPrice     float64 `json:"totalPrice"`
	PaymentOrderID string  `json:"paymentOrderID"`
}

// CreateBooking handles POST /api/bookings. The body is discriminated by
// type. Local persistence is the line past which failures become advisory:
// the channel push and every email are logged-and-swallowed.
func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Type == "room" {
		createRoomBooking(ctx, input)
		return
	}
	createServiceBooking(ctx, input)
}

func newConfirmationCode() string {
	return "GH-" + strings.ToUpper(utils.GenerateShortToken(4))
}

func createRoomBooking(ctx iris.Context, input CreateBookingInput) {
	if input.RoomID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "roomID is required for room bookings", ctx)
		return
	}

	checkIn, err := utils.ParseDate(input.CheckIn)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be YYYY-MM-DD", ctx)
		return
	}
	checkOut, err := utils.ParseDate(input.CheckOut)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be YYYY-MM-DD", ctx)
		return
	}
	if !checkIn.Before(checkOut) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be before checkOut", ctx)
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, input.RoomID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}

	numGuests := input.NumGuests
	if numGuests < 1 {
		numGuests = 1
	}
	if numGuests > room.Capacity {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			fmt.Sprintf("%s sleeps at most %d guests", room.Name, room.Capacity), ctx)
		return
	}

	totalPrice := input.TotalPrice
	if totalPrice <= 0 {
		totalPrice = room.NightlyPrice * float64(utils.Nights(checkIn, checkOut))
	}

	note := input.Note
	if input.PaymentOrderID != "" {
		// Capture happens client-side; we only record the transaction ref.
		if txnID, err := payments.CaptureOrder(input.PaymentOrderID); err != nil {
			log.Printf("booking: payment capture record failed for order %s: %v", input.PaymentOrderID, err)
		} else {
			note = strings.TrimSpace(note + " [payment " + txnID + "]")
		}
	}

	reservation := models.Reservation{
		ConfirmationCode: newConfirmationCode(),
		RoomID:           room.ID,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		GuestName:        input.GuestName,
		GuestEmail:       input.GuestEmail,
		GuestPhone:       input.GuestPhone,
		NumGuests:        numGuests,
		TotalPrice:       totalPrice,
		Status:           models.ReservationConfirmed,
		Note:             note,
	}

	// Re-check the conflict inside the transaction so two near-simultaneous
	// requests cannot both pass an earlier check and both insert.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		conflicts, err := services.CountConflicts(tx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return errRoomTaken
		}
		return tx.Create(&reservation).Error
	})
	if txErr == errRoomTaken {
		utils.CreateError(iris.StatusConflict, "Conflict", "The room is no longer available for the selected dates", ctx)
		return
	}
	if txErr != nil {
		log.Printf("booking: reservation create failed: %v", txErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	// The local reservation is committed; everything below is best-effort.
	if room.ChannelManaged() {
		go func() {
			err := channel.PushBooking(services.BookingPush{
				RoomID:     *room.Beds24RoomID,
				CheckIn:    checkIn,
				CheckOut:   checkOut,
				GuestName:  input.GuestName,
				GuestEmail: input.GuestEmail,
				GuestPhone: input.GuestPhone,
				NumGuests:  numGuests,
				Price:      totalPrice,
				Notes:      "Local booking " + reservation.ConfirmationCode,
			})
			if err != nil {
				log.Printf("booking: channel push failed for %s: %v", reservation.ConfirmationCode, err)
			}
		}()
	}

	if input.Transfer != nil {
		createTransferAddOn(&reservation, input)
	}

	subject, html := services.RenderRoomConfirmation(
		input.GuestName, room.Name,
		checkIn.Format(utils.DateLayout), checkOut.Format(utils.DateLayout),
		reservation.ConfirmationCode, totalPrice)
	go services.SendBestEffort(mailer, input.GuestEmail, subject, html)

	ctx.JSON(iris.Map{
		"success":        true,
		"confirmationId": reservation.ConfirmationCode,
		"booking":        reservation,
	})
}

var errRoomTaken = fmt.Errorf("room already booked for the requested dates")
var errCapReached = fmt.Errorf("daily capacity reached")

// createTransferAddOn persists the airport-transfer add-on of a room booking
// and sends its own confirmation mail. Failures never affect the committed
// reservation.
func createTransferAddOn(reservation *models.Reservation, input CreateBookingInput) {
	details := models.TransferDetails{
		FlightNumber: input.Transfer.FlightNumber,
		FlightTime:   input.Transfer.FlightTime,
		Direction:    input.Transfer.Direction,
		Passengers:   input.Transfer.Passengers,
	}
	if details.Direction == "" {
		details.Direction = "arrival"
	}
	if details.Passengers < 1 {
		details.Passengers = reservation.NumGuests
	}

	encoded, err := models.EncodeDetails(models.ServiceTransfer, details)
	if err != nil {
		log.Printf("booking: invalid transfer add-on for %s: %v", reservation.ConfirmationCode, err)
		return
	}

	addOn := models.ServiceBooking{
		ConfirmationCode: newConfirmationCode(),
		Type:             models.ServiceTransfer,
		GuestName:        reservation.GuestName,
		GuestEmail:       reservation.GuestEmail,
		GuestPhone:       reservation.GuestPhone,
		Date:             reservation.CheckIn,
		Details:          encoded,
		TotalPrice:       input.Transfer.Price,
		Status:           models.ServiceBookingConfirmed,
		ReservationID:    &reservation.ID,
	}
	if err := storage.DB.Create(&addOn).Error; err != nil {
		log.Printf("booking: transfer add-on create failed for %s: %v", reservation.ConfirmationCode, err)
		return
	}

	subject, html := services.RenderServiceConfirmation(
		addOn.GuestName, "Airport transfer",
		addOn.Date.Format(utils.DateLayout), addOn.ConfirmationCode, addOn.TotalPrice)
	go services.SendBestEffort(mailer, addOn.GuestEmail, subject, html)
}

func createServiceBooking(ctx iris.Context, input CreateBookingInput) {
	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be YYYY-MM-DD", ctx)
		return
	}

	encoded, err := decodeServiceDetails(input)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	capped := input.Type == models.ServiceTransfer || input.Type == models.ServiceLaundry
	var limit services.LimitResult
	if capped {
		limit, err = services.CheckDailyLimit(input.Type, date)
		if err != nil {
			log.Printf("booking: limiter check failed: %v", err)
			utils.CreateInternalServerError(ctx)
			return
		}
		if !limit.Allowed {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"success":          false,
				"error":            fmt.Sprintf("No more %s slots available for this day", input.Type),
				"availabilityInfo": limit,
			})
			return
		}
	}

	booking := models.ServiceBooking{
		ConfirmationCode: newConfirmationCode(),
		Type:             input.Type,
		GuestName:        input.GuestName,
		GuestEmail:       input.GuestEmail,
		GuestPhone:       input.GuestPhone,
		Date:             date,
		Details:          encoded,
		TotalPrice:       input.TotalPrice,
		Status:           models.ServiceBookingConfirmed,
	}

	// Same pattern as the room path: re-check the cap inside the transaction.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if capped && limit.Enabled {
			count, err := services.CountDailyBookings(tx, input.Type, date)
			if err != nil {
				return err
			}
			if count >= int64(limit.Max) {
				limit.Allowed = false
				limit.Current = int(count)
				return errCapReached
			}
		}
		return tx.Create(&booking).Error
	})
	if txErr == errCapReached {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"success":          false,
			"error":            fmt.Sprintf("No more %s slots available for this day", input.Type),
			"availabilityInfo": limit,
		})
		return
	}
	if txErr != nil {
		log.Printf("booking: service booking create failed: %v", txErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	subject, html := services.RenderServiceConfirmation(
		input.GuestName, serviceDisplayName(input.Type),
		date.Format(utils.DateLayout), booking.ConfirmationCode, booking.TotalPrice)
	go services.SendBestEffort(mailer, input.GuestEmail, subject, html)

	ctx.JSON(iris.Map{
		"success":        true,
		"confirmationId": booking.ConfirmationCode,
		"booking":        booking,
	})
}

// decodeServiceDetails parses the type-specific payload at the boundary so
// nothing downstream touches raw JSON.
func decodeServiceDetails(input CreateBookingInput) (datatypes.JSON, error) {
	switch input.Type {
	case models.ServiceTransfer:
		var d models.TransferDetails
		if err := json.Unmarshal(input.Details, &d); err != nil {
			return nil, fmt.Errorf("transfer details: %w", err)
		}
		return models.EncodeDetails(models.ServiceTransfer, d)
	case models.ServiceLaundry:
		var d models.LaundryDetails
		if err := json.Unmarshal(input.Details, &d); err != nil {
			return nil, fmt.Errorf("laundry details: %w", err)
		}
		return models.EncodeDetails(models.ServiceLaundry, d)
	case models.ServiceExcursion:
		var d models.ExcursionDetails
		if err := json.Unmarshal(input.Details, &d); err != nil {
			return nil, fmt.Errorf("excursion details: %w", err)
		}
		return models.EncodeDetails(models.ServiceExcursion, d)
	}
	return nil, fmt.Errorf("unknown booking type %q", input.Type)
}

func serviceDisplayName(serviceType string) string {
	switch serviceType {
	case models.ServiceTransfer:
		return "Airport transfer"
	case models.ServiceLaundry:
		return "Laundry"
	case models.ServiceExcursion:
		return "Excursion"
	}
	return serviceType
}

// CheckServiceAvailability handles GET /api/services/{type}/availability?date=YYYY-MM-DD
// so the checkout UI can show "X/Y slots used" before submitting.
func CheckServiceAvailability(ctx iris.Context) {
	serviceType := ctx.Params().Get("type")
	if serviceType != models.ServiceTransfer && serviceType != models.ServiceLaundry {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "only transfer and laundry are capped", ctx)
		return
	}

	date, err := utils.ParseDate(ctx.URLParam("date"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be YYYY-MM-DD", ctx)
		return
	}

	limit, err := services.CheckDailyLimit(serviceType, date)
	if err != nil {
		log.Printf("booking: limiter check failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(limit)
}
