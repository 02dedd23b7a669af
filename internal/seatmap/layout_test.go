package seatmap

import (
	"testing"

	"navticket/internal/domain/models"
)

func TestGenerateStandardLayout(t *testing.T) {
	seats := Generate(1, models.SeatLayoutStandard, 12)

	if len(seats) != 12 {
		t.Fatalf("expected 12 seats, got %d", len(seats))
	}
	if seats[0].SeatNumber != "1A" || seats[0].Position != models.PositionLeftWindow {
		t.Fatalf("unexpected first seat: %+v", seats[0])
	}
	if seats[4].SeatNumber != "1E" || seats[4].Position != models.PositionRightWindow {
		t.Fatalf("unexpected fifth seat: %+v", seats[4])
	}
	// 12 seats over 5 per row: last row holds only 2
	if seats[11].SeatNumber != "3B" || seats[11].Row != 3 {
		t.Fatalf("unexpected last seat: %+v", seats[11])
	}
	for _, s := range seats {
		if !s.IsAvailable {
			t.Fatalf("generated seat %s must start available", s.SeatNumber)
		}
		if s.TripID != 1 {
			t.Fatalf("generated seat %s has wrong trip id", s.SeatNumber)
		}
	}
}

func TestGeneratePartialSingleRow(t *testing.T) {
	seats := Generate(7, models.SeatLayoutStandard, 4)

	want := []string{"1A", "1B", "1C", "1D"}
	if len(seats) != len(want) {
		t.Fatalf("expected %d seats, got %d", len(want), len(seats))
	}
	for i, s := range seats {
		if s.SeatNumber != want[i] {
			t.Fatalf("seat %d: expected %s, got %s", i, want[i], s.SeatNumber)
		}
	}
}

func TestGenerateVIPLayout(t *testing.T) {
	seats := Generate(2, models.SeatLayoutVIP, 8)

	if len(seats) != 8 {
		t.Fatalf("expected 8 seats, got %d", len(seats))
	}
	if seats[3].SeatNumber != "1D" || seats[3].Position != models.PositionRightWindow {
		t.Fatalf("unexpected fourth seat: %+v", seats[3])
	}
	if seats[4].SeatNumber != "2A" || seats[4].Row != 2 {
		t.Fatalf("unexpected fifth seat: %+v", seats[4])
	}
	for _, s := range seats {
		if s.Position == models.PositionLeftMiddle {
			t.Fatalf("vip layout must not contain middle seats, got %s", s.SeatNumber)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(3, models.SeatLayoutStandard, 45)
	b := Generate(3, models.SeatLayoutStandard, 45)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].SeatNumber != b[i].SeatNumber || a[i].Position != b[i].Position {
			t.Fatalf("generation not deterministic at index %d", i)
		}
	}
}

func TestConfigForUnknownFallsBackToStandard(t *testing.T) {
	cfg := ConfigFor(models.SeatLayout("9x9"))
	if cfg.Code != models.SeatLayoutStandard {
		t.Fatalf("unknown layout should fall back to standard, got %s", cfg.Code)
	}
}

func TestRows(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{5, 1},
		{6, 2},
		{45, 9},
	}
	for _, tc := range cases {
		if got := standard.Rows(tc.total); got != tc.want {
			t.Fatalf("Rows(%d): expected %d, got %d", tc.total, tc.want, got)
		}
	}
}
