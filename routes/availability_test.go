package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guesthouse-server/models"
	"guesthouse-server/services"
)

type searchResponse struct {
	Status            string                `json:"status"`
	Rooms             []services.MergedRoom `json:"rooms"`
	Message           string                `json:"message"`
	PreferredRoomName string                `json:"preferredRoomName"`
}

func get(app http.Handler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func postJSON(app http.Handler, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAvailabilityRequiresDates(t *testing.T) {
	setupTestDB(t)
	InitServices(services.NewBeds24Client(services.Beds24Config{}), services.LogMailer{})
	app := buildTestApp(t)

	if resp := get(app, "/api/availability"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without dates, got %d", resp.Code)
	}
	if resp := get(app, "/api/availability?arrival=2025-06-01"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without departure, got %d", resp.Code)
	}
	if resp := get(app, "/api/availability?arrival=2025-06-03&departure=2025-06-01"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for arrival after departure, got %d", resp.Code)
	}
	if resp := get(app, "/api/availability?arrival=bogus&departure=2025-06-03"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed arrival, got %d", resp.Code)
	}
}

// End-to-end: a channel-managed room reported unavailable upstream fails
// closed; the local-only room is bookable once, then the search is fully
// booked.
func TestSearchBookSearchScenario(t *testing.T) {
	db := setupTestDB(t)

	beds24 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"roomId":"101","numAvail":0,"price":100,"minStay":1}]`))
	}))
	defer beds24.Close()

	InitServices(services.NewBeds24Client(services.Beds24Config{
		APIKey: "key", PropKey: "prop", BaseURL: beds24.URL,
	}), services.LogMailer{})
	app := buildTestApp(t)

	ext := "101"
	roomA := models.Room{Slug: "room-a", Name: "Room A", NightlyPrice: 100, Capacity: 2, Beds24RoomID: &ext}
	roomB := models.Room{Slug: "room-b", Name: "Room B", NightlyPrice: 80, Capacity: 2}
	if err := db.Create(&roomA).Error; err != nil {
		t.Fatalf("create room A: %v", err)
	}
	if err := db.Create(&roomB).Error; err != nil {
		t.Fatalf("create room B: %v", err)
	}

	// 1. Search: only the local-only room B is offered.
	resp := get(app, "/api/availability?arrival=2025-06-01&departure=2025-06-03&numAdults=2")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result searchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != services.StatusSuccess {
		t.Fatalf("expected success, got %s", result.Status)
	}
	if len(result.Rooms) != 1 || result.Rooms[0].Slug != "room-b" {
		t.Fatalf("expected only room-b, got %+v", result.Rooms)
	}

	// 2. Book room B for the range.
	body := `{"type":"room","guestName":"Ana Perez","guestEmail":"ana@example.com","roomID":` +
		jsonID(roomB.ID) + `,"checkIn":"2025-06-01","checkOut":"2025-06-03","numGuests":2}`
	bookResp := postJSON(app, "/api/bookings", body)
	if bookResp.Code != http.StatusOK {
		t.Fatalf("expected 200 booking, got %d: %s", bookResp.Code, bookResp.Body.String())
	}
	var booked struct {
		Success        bool   `json:"success"`
		ConfirmationID string `json:"confirmationId"`
	}
	if err := json.Unmarshal(bookResp.Body.Bytes(), &booked); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if !booked.Success || booked.ConfirmationID == "" {
		t.Fatalf("expected success with confirmation id, got %s", bookResp.Body.String())
	}

	// 3. Repeat search: room B is now taken locally, room A still failed closed.
	resp2 := get(app, "/api/availability?arrival=2025-06-01&departure=2025-06-03&numAdults=2")
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp2.Code)
	}
	var result2 searchResponse
	if err := json.Unmarshal(resp2.Body.Bytes(), &result2); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result2.Status != services.StatusFullyBooked {
		t.Fatalf("expected fully_booked, got %s", result2.Status)
	}
	if len(result2.Rooms) != 0 {
		t.Fatalf("expected no rooms, got %d", len(result2.Rooms))
	}
}

func TestSearchPreferredRoomPlacedFirst(t *testing.T) {
	db := setupTestDB(t)
	InitServices(services.NewBeds24Client(services.Beds24Config{}), services.LogMailer{})
	app := buildTestApp(t)

	// All local-only, so availability is deterministic without the channel.
	for _, r := range []models.Room{
		{Slug: "standard", Name: "Standard", NightlyPrice: 70, Capacity: 2},
		{Slug: "deluxe", Name: "Deluxe", NightlyPrice: 110, Capacity: 3},
		{Slug: "family", Name: "Family", NightlyPrice: 140, Capacity: 5},
	} {
		room := r
		if err := db.Create(&room).Error; err != nil {
			t.Fatalf("create room: %v", err)
		}
	}

	resp := get(app, "/api/availability?arrival=2025-06-01&departure=2025-06-03&preferred_room_id=deluxe")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result searchResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != services.StatusPreferredAvailable {
		t.Fatalf("expected preferred_available, got %s", result.Status)
	}
	if len(result.Rooms) != 3 || result.Rooms[0].Slug != "deluxe" {
		t.Fatalf("expected deluxe first of 3, got %+v", result.Rooms)
	}
}
