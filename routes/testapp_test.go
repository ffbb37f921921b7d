package routes

import (
	"fmt"
	"strconv"
	"testing"

	"guesthouse-server/storage"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB swaps storage.DB for an isolated in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	storage.DB = db
	storage.Migrate(db)
	return db
}

// buildTestApp creates a minimal iris app with the guest-facing routes
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	app := iris.New()
	app.Validator = validator.New()

	api := app.Party("/api")
	api.Get("/availability", SearchAvailability)
	api.Post("/bookings", CreateBooking)
	api.Get("/services/{type}/availability", CheckServiceAvailability)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
