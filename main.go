package main

import (
	"guesthouse-server/routes"
	"guesthouse-server/services"
	"guesthouse-server/storage"
	"guesthouse-server/utils"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	routes.InitServices(
		services.NewBeds24Client(services.Beds24ConfigFromEnv()),
		services.NewMailerFromEnv(),
	)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifierMiddleware := utils.AccessTokenVerifier()

	api := app.Party("/api")
	{
		api.Get("/availability", routes.SearchAvailability)
		api.Post("/bookings", routes.CreateBooking)
		api.Get("/services/{type}/availability", routes.CheckServiceAvailability)

		rooms := api.Party("/rooms")
		{
			rooms.Get("/", routes.GetRooms)
			rooms.Get("/{id}", routes.GetRoomByID)
			rooms.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateRoom)
			rooms.Patch("/{id}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.UpdateRoom)
			rooms.Delete("/{id}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeactivateRoom)
		}

		admin := api.Party("/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
		{
			admin.Get("/settings", routes.AdminGetSettings)
			admin.Put("/settings", routes.AdminUpdateSettings)
			admin.Get("/reservations", routes.AdminListReservations)
			admin.Patch("/reservations/{id}/status", routes.AdminUpdateReservationStatus)
			admin.Get("/service-bookings", routes.AdminListServiceBookings)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Starting guesthouse server on port", port)
	app.Listen(":" + port)
}
