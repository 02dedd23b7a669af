package models

import (
	"time"

	"navticket/internal/utils"
)

type TripStatus string

const (
	TripStatusDraft      TripStatus = "draft"
	TripStatusScheduled  TripStatus = "scheduled"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
	TripStatusDelayed    TripStatus = "delayed"
	TripStatusOnTime     TripStatus = "on_time"
	TripStatusEarly      TripStatus = "early"
	TripStatusLate       TripStatus = "late"
)

type SeatLayout string

const (
	SeatLayoutStandard SeatLayout = "3x2"
	SeatLayoutVIP      SeatLayout = "2x2"
)

// Trip is the read model the booking core operates against. Route and
// company management live outside this service; only capacity, pricing
// and schedule fields matter here.
type Trip struct {
	ID             int64      `json:"id"`
	RouteFrom      string     `json:"route_from"`
	RouteTo        string     `json:"route_to"`
	DepartureDate  string     `json:"departure_date"` // YYYY-MM-DD
	DepartureTime  string     `json:"departure_time"` // HH:MM
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`
	Price          int64      `json:"price"` // per seat, XOF
	SeatLayout     SeatLayout `json:"seat_layout"`
	Status         TripStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DepartureAt combines the stored date and time columns into one instant.
func (t Trip) DepartureAt() (time.Time, error) {
	return utils.CombineDateTime(t.DepartureDate, t.DepartureTime)
}

// IsBookable reports whether new bookings may target this trip.
// Bookable means scheduled or on_time, departing strictly in the future,
// with at least one seat left on the capacity ledger.
func (t Trip) IsBookable(now time.Time) bool {
	if t.Status != TripStatusScheduled && t.Status != TripStatusOnTime {
		return false
	}
	dep, err := t.DepartureAt()
	if err != nil || !dep.After(now) {
		return false
	}
	return t.AvailableSeats > 0
}
