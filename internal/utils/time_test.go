package utils

import (
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	at, err := CombineDateTime(" 2026-03-10 ", "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("expected %v, got %v", want, at)
	}

	if _, err := CombineDateTime("2026-03-10", "25:99"); err == nil {
		t.Fatal("expected error for invalid clock")
	}
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)
	if got := FormatDate(at); got != "2026-03-10" {
		t.Fatalf("expected 2026-03-10, got %s", got)
	}
}
