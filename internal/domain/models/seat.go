package models

import "time"

type SeatPosition string

const (
	PositionLeftWindow  SeatPosition = "left_window"
	PositionLeftMiddle  SeatPosition = "left_middle"
	PositionLeftAisle   SeatPosition = "left_aisle"
	PositionRightAisle  SeatPosition = "right_aisle"
	PositionRightWindow SeatPosition = "right_window"
)

// Seat is one physical seat on one trip. (trip_id, seat_number) is unique.
//
// Three states, derived from the fields:
//   - available: IsAvailable, no BookingID, no ReservedUntil
//   - held:      !IsAvailable, no BookingID, ReservedUntil in the future
//   - booked:    !IsAvailable, BookingID set, no ReservedUntil
//
// A held seat whose ReservedUntil has passed counts as available again and
// is reclaimed lazily or by the sweep worker.
type Seat struct {
	ID            int64        `json:"id"`
	TripID        int64        `json:"trip_id"`
	SeatNumber    string       `json:"seat_number"`
	Row           int          `json:"row"`
	Position      SeatPosition `json:"position"`
	IsAvailable   bool         `json:"is_available"`
	BookingID     *int64       `json:"booking_id,omitempty"`
	PassengerName string       `json:"passenger_name,omitempty"`
	ReservedUntil *time.Time   `json:"reserved_until,omitempty"`
}

// IsBooked reports whether the seat is permanently assigned to a booking.
func (s Seat) IsBooked() bool {
	return s.BookingID != nil
}

// IsSelectable reports whether a reservation attempt at the given instant
// may take this seat: either truly available, or held past expiry.
func (s Seat) IsSelectable(now time.Time) bool {
	if s.IsBooked() {
		return false
	}
	if s.IsAvailable {
		return true
	}
	return s.ReservedUntil != nil && s.ReservedUntil.Before(now)
}

// SeatMap is the full seat set for a trip plus the availability summary.
type SeatMap struct {
	TripID        int64      `json:"trip_id"`
	SeatLayout    SeatLayout `json:"seat_layout"`
	Total         int        `json:"total_seats"`
	Available     int        `json:"available_seats"`
	Booked        int        `json:"booked_seats"`
	Held          int        `json:"held_seats"`
	OccupancyRate float64    `json:"occupancy_rate"`
	Seats         []Seat     `json:"seats"`
}

// SeatSummary is the counters-only view, cheap enough to cache.
type SeatSummary struct {
	Total         int     `json:"total"`
	Available     int     `json:"available"`
	Booked        int     `json:"booked"`
	Held          int     `json:"held"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// Summarize derives the availability counters from raw seat rows.
func Summarize(seats []Seat) SeatSummary {
	sum := SeatSummary{Total: len(seats)}
	for _, s := range seats {
		switch {
		case s.IsBooked():
			sum.Booked++
		case s.IsAvailable:
			sum.Available++
		default:
			sum.Held++
		}
	}
	if sum.Total > 0 {
		sum.OccupancyRate = float64(sum.Booked) / float64(sum.Total) * 100
	}
	return sum
}
