// Package seatmap derives deterministic seat layouts from a trip's bus
// configuration code. Generation is pure; persistence belongs to the
// seat repository.
package seatmap

import (
	"strconv"

	"navticket/internal/domain/models"
)

// LayoutConfig maps a layout code to its per-row shape.
type LayoutConfig struct {
	Code        models.SeatLayout
	SeatsPerRow int
	Positions   []models.SeatPosition
	Columns     []string
}

var standard = LayoutConfig{
	Code:        models.SeatLayoutStandard,
	SeatsPerRow: 5,
	Positions: []models.SeatPosition{
		models.PositionLeftWindow,
		models.PositionLeftMiddle,
		models.PositionLeftAisle,
		models.PositionRightAisle,
		models.PositionRightWindow,
	},
	Columns: []string{"A", "B", "C", "D", "E"},
}

var vip = LayoutConfig{
	Code:        models.SeatLayoutVIP,
	SeatsPerRow: 4,
	Positions: []models.SeatPosition{
		models.PositionLeftWindow,
		models.PositionLeftAisle,
		models.PositionRightAisle,
		models.PositionRightWindow,
	},
	Columns: []string{"A", "B", "C", "D"},
}

// ConfigFor returns the layout configuration for a code. Unknown codes
// fall back to the standard 3x2 layout, matching how trips created
// before a layout value existed are treated.
func ConfigFor(layout models.SeatLayout) LayoutConfig {
	if layout == models.SeatLayoutVIP {
		return vip
	}
	return standard
}

// Rows returns how many rows the layout needs for totalSeats.
func (c LayoutConfig) Rows(totalSeats int) int {
	if totalSeats <= 0 {
		return 0
	}
	return (totalSeats + c.SeatsPerRow - 1) / c.SeatsPerRow
}

// Generate builds the seat set for a trip. Rows are 1-indexed and the
// last row may be partial. Seat numbers are "{row}{column}", e.g. "1A".
func Generate(tripID int64, layout models.SeatLayout, totalSeats int) []models.Seat {
	cfg := ConfigFor(layout)

	seats := make([]models.Seat, 0, max(totalSeats, 0))
	for row := 1; row <= cfg.Rows(totalSeats); row++ {
		for i := 0; i < cfg.SeatsPerRow && len(seats) < totalSeats; i++ {
			seats = append(seats, models.Seat{
				TripID:      tripID,
				SeatNumber:  strconv.Itoa(row) + cfg.Columns[i],
				Row:         row,
				Position:    cfg.Positions[i],
				IsAvailable: true,
			})
		}
	}
	return seats
}
