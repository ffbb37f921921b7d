package services

import (
	"fmt"
	"strconv"

	"guesthouse-server/models"
)

// Search outcome states. RankForRequest returns exactly one of these.
const (
	StatusSuccess              = "success"
	StatusFullyBooked          = "fully_booked"
	StatusPreferredAvailable   = "preferred_available"
	StatusPreferredUnavailable = "preferred_unavailable"
)

// MergedRoom is the canonical bookable-room view for one search request:
// local room identity plus the availability/price decision after merging
// with the channel manager.
type MergedRoom struct {
	ID             uint    `json:"id"`
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Capacity       int     `json:"capacity"`
	Price          float64 `json:"price"`
	MinStay        int     `json:"minStay"`
	Available      bool    `json:"available"`
	ChannelManaged bool    `json:"channelManaged"`
}

// SearchResult is the ranked answer for an availability search.
type SearchResult struct {
	Status            string       `json:"status"`
	Rooms             []MergedRoom `json:"rooms"`
	Message           string       `json:"message"`
	PreferredRoomName string       `json:"preferredRoomName,omitempty"`
}

// MergeAvailability merges local rooms with channel records.
// A mapped room takes the channel's availability and price as authoritative.
// A mapped room the channel did not answer for fails closed: unknown external
// state must never be presented as bookable. An unmapped room is local-only
// inventory and is always available at its base price.
func MergeAvailability(rooms []models.Room, ext map[string]ExternalAvailability) []MergedRoom {
	merged := make([]MergedRoom, 0, len(rooms))
	for _, room := range rooms {
		m := MergedRoom{
			ID:          room.ID,
			Slug:        room.Slug,
			Name:        room.Name,
			Description: room.Description,
			Capacity:    room.Capacity,
			Price:       room.NightlyPrice,
			MinStay:     1,
			Available:   true,
		}
		if room.ChannelManaged() {
			m.ChannelManaged = true
			rec, ok := ext[*room.Beds24RoomID]
			if !ok {
				m.Available = false
			} else {
				m.Available = rec.Available
				if rec.Price > 0 {
					m.Price = rec.Price
				}
				if rec.MinStay > 1 {
					m.MinStay = rec.MinStay
				}
			}
		}
		merged = append(merged, m)
	}
	return merged
}

// RankForRequest filters to available rooms and applies the preferred-room
// semantics. preferred may be a numeric id or a slug; an unresolvable value
// falls through to the no-preference path.
func RankForRequest(merged []MergedRoom, preferred string) SearchResult {
	available := make([]MergedRoom, 0, len(merged))
	for _, m := range merged {
		if m.Available {
			available = append(available, m)
		}
	}

	preferredRoom, found := resolvePreferred(merged, preferred)
	if !found {
		if len(available) == 0 {
			return SearchResult{
				Status:  StatusFullyBooked,
				Rooms:   []MergedRoom{},
				Message: "We are fully booked for the selected dates. Please try different dates.",
			}
		}
		return SearchResult{
			Status:  StatusSuccess,
			Rooms:   available,
			Message: fmt.Sprintf("%d room(s) available for your dates.", len(available)),
		}
	}

	if preferredRoom.Available {
		ranked := make([]MergedRoom, 0, len(available))
		ranked = append(ranked, preferredRoom)
		for _, m := range available {
			if m.ID != preferredRoom.ID {
				ranked = append(ranked, m)
			}
		}
		return SearchResult{
			Status:  StatusPreferredAvailable,
			Rooms:   ranked,
			Message: fmt.Sprintf("Good news! %s is available for your dates.", preferredRoom.Name),
		}
	}

	return SearchResult{
		Status:            StatusPreferredUnavailable,
		Rooms:             available,
		Message:           fmt.Sprintf("We're sorry, %s is not available for the selected dates. Here are our other rooms.", preferredRoom.Name),
		PreferredRoomName: preferredRoom.Name,
	}
}

// resolvePreferred matches against the full merged set, not just the
// available subset, so an unavailable preferred room is still recognized.
func resolvePreferred(merged []MergedRoom, preferred string) (MergedRoom, bool) {
	if preferred == "" {
		return MergedRoom{}, false
	}
	id, idErr := strconv.ParseUint(preferred, 10, 64)
	for _, m := range merged {
		if idErr == nil && m.ID == uint(id) {
			return m, true
		}
		if m.Slug == preferred {
			return m, true
		}
	}
	return MergedRoom{}, false
}
