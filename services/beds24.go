package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Mock-mode price band. The floor is a contract: synthetic prices are never
// below it, so downstream totals stay plausible in dev environments.
const (
	MockPriceFloor = 45.0
	mockPriceBand  = 120.0
)

// Beds24Config carries the channel-manager credentials and endpoint. It is
// built once in main and injected; the client never reads the environment.
type Beds24Config struct {
	APIKey  string
	PropKey string
	BaseURL string
	Timeout time.Duration
}

// Beds24ConfigFromEnv reads BEDS24_API_KEY / BEDS24_PROP_KEY / BEDS24_API_URL.
// An empty API key puts the client in mock mode.
func Beds24ConfigFromEnv() Beds24Config {
	return Beds24Config{
		APIKey:  os.Getenv("BEDS24_API_KEY"),
		PropKey: os.Getenv("BEDS24_PROP_KEY"),
		BaseURL: os.Getenv("BEDS24_API_URL"),
	}
}

// ExternalAvailability is the per-room answer from the channel manager.
// Ephemeral: recomputed on every search, never persisted.
type ExternalAvailability struct {
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
	MinStay   int     `json:"minStay"`
}

type Beds24Client struct {
	cfg    Beds24Config
	client *http.Client
}

func NewBeds24Client(cfg Beds24Config) *Beds24Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.beds24.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Beds24Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether real channel credentials are present.
func (c *Beds24Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type beds24Auth struct {
	APIKey  string `json:"apiKey"`
	PropKey string `json:"propKey"`
}

type availabilityRequest struct {
	Authentication beds24Auth `json:"authentication"`
	CheckIn        string     `json:"checkIn"`
	CheckOut       string     `json:"checkOut"`
	NumAdult       int        `json:"numAdult"`
	RoomIDs        []string   `json:"roomIds"`
}

type roomAvailability struct {
	RoomID   string  `json:"roomId"`
	NumAvail int     `json:"numAvail"`
	Price    float64 `json:"price"`
	MinStay  int     `json:"minStay"`
}

// GetAvailability returns one record per external room id for the stay window.
// Without credentials it synthesizes data so the rest of the system runs
// end-to-end; with credentials any failure (transport or API-level) yields an
// empty map, letting the reconciler fail closed for mapped rooms.
func (c *Beds24Client) GetAvailability(checkIn, checkOut time.Time, numAdults int, roomIDs []string) map[string]ExternalAvailability {
	if !c.Configured() {
		return c.mockAvailability(roomIDs)
	}

	payload := availabilityRequest{
		Authentication: beds24Auth{APIKey: c.cfg.APIKey, PropKey: c.cfg.PropKey},
		CheckIn:        checkIn.Format("2006-01-02"),
		CheckOut:       checkOut.Format("2006-01-02"),
		NumAdult:       numAdults,
		RoomIDs:        roomIDs,
	}

	body, _, err := c.post("/json/getAvailabilities", payload)
	if err != nil {
		log.Printf("beds24: availability request failed: %v", err)
		return map[string]ExternalAvailability{}
	}

	// An array means per-room records; an object means an API-level error.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &apiErr); err == nil && apiErr.Error != "" {
			log.Printf("beds24: availability rejected: %s", apiErr.Error)
		} else {
			log.Printf("beds24: unexpected availability response: %.200s", string(trimmed))
		}
		return map[string]ExternalAvailability{}
	}

	var records []roomAvailability
	if err := json.Unmarshal(trimmed, &records); err != nil {
		log.Printf("beds24: malformed availability response: %v", err)
		return map[string]ExternalAvailability{}
	}

	out := make(map[string]ExternalAvailability, len(records))
	for _, rec := range records {
		out[rec.RoomID] = ExternalAvailability{
			Available: rec.NumAvail > 0,
			Price:     rec.Price,
			MinStay:   rec.MinStay,
		}
	}
	return out
}

// mockAvailability synthesizes one record per requested id: ~80% available,
// price in [floor, floor+band).
func (c *Beds24Client) mockAvailability(roomIDs []string) map[string]ExternalAvailability {
	out := make(map[string]ExternalAvailability, len(roomIDs))
	for _, id := range roomIDs {
		out[id] = ExternalAvailability{
			Available: rand.Float64() < 0.8,
			Price:     MockPriceFloor + rand.Float64()*mockPriceBand,
			MinStay:   1,
		}
	}
	return out
}

// BookingPush mirrors a committed local reservation to the channel manager.
type BookingPush struct {
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	GuestName  string
	GuestEmail string
	GuestPhone string
	NumGuests  int
	Price      float64
	Notes      string
}

type bookingRequest struct {
	Authentication beds24Auth `json:"authentication"`
	RoomID         string     `json:"roomId"`
	FirstNight     string     `json:"firstNight"`
	LastNight      string     `json:"lastNight"`
	GuestName      string     `json:"guestName"`
	GuestEmail     string     `json:"guestEmail"`
	GuestPhone     string     `json:"guestPhone"`
	NumAdult       int        `json:"numAdult"`
	Price          float64    `json:"price"`
	Notes          string     `json:"notes"`
	Status         string     `json:"status"`
}

// PushBooking sends a committed booking upstream. The local reservation is
// the system of record: callers log failures and move on.
func (c *Beds24Client) PushBooking(p BookingPush) error {
	if !c.Configured() {
		log.Printf("beds24: mock mode, skipping booking push for room %s (%s)", p.RoomID, p.Notes)
		return nil
	}

	payload := bookingRequest{
		Authentication: beds24Auth{APIKey: c.cfg.APIKey, PropKey: c.cfg.PropKey},
		RoomID:         p.RoomID,
		FirstNight:     p.CheckIn.Format("2006-01-02"),
		LastNight:      p.CheckOut.AddDate(0, 0, -1).Format("2006-01-02"),
		GuestName:      p.GuestName,
		GuestEmail:     p.GuestEmail,
		GuestPhone:     p.GuestPhone,
		NumAdult:       p.NumGuests,
		Price:          p.Price,
		Notes:          p.Notes,
		Status:         "1", // confirmed
	}

	body, status, err := c.post("/json/setBooking", payload)
	if err != nil {
		return err
	}

	var resp struct {
		BookID json.Number `json:"bookId"`
		Error  string      `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("beds24: malformed setBooking response (status %d): %w", status, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("beds24: setBooking rejected: %s", resp.Error)
	}
	return nil
}

// post issues a single JSON request; no retries.
func (c *Beds24Client) post(path string, payload any) ([]byte, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, res.StatusCode, fmt.Errorf("beds24: %s returned status %d", path, res.StatusCode)
	}
	return body, res.StatusCode, nil
}
