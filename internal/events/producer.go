// Package events publishes booking lifecycle notifications to Kafka for
// downstream consumers (notifications, analytics). Publishing happens
// after the database transaction commits and never fails the request.
package events

import (
	"context"
	"encoding/json"
	"time"

	"navticket/internal/utils"

	"github.com/segmentio/kafka-go"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeSeatsAssigned    = "booking.seats_assigned"
	TypeHoldsExpired     = "seats.holds_expired"
)

// BookingEvent is the wire payload for one lifecycle transition. Sweep
// events carry no reference; Count says how many holds were reclaimed.
type BookingEvent struct {
	Type        string    `json:"type"`
	Reference   string    `json:"reference,omitempty"`
	TripID      int64     `json:"trip_id,omitempty"`
	SeatNumbers []string  `json:"seat_numbers,omitempty"`
	Status      string    `json:"status,omitempty"`
	TotalAmount int64     `json:"total_amount,omitempty"`
	Count       int64     `json:"count,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a Kafka producer for the booking topic. With no
// brokers configured it returns a disabled producer whose Publish is a
// no-op, mirroring the optional redis cache.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return &Producer{}
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

// Publish emits one event keyed by booking reference so per-booking
// ordering is preserved within a partition. Errors are logged, not
// returned: the booking already committed.
func (p *Producer) Publish(ctx context.Context, ev BookingEvent) {
	if p == nil || p.writer == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		utils.LogEvent("", "events", "marshal", err.Error())
		return
	}
	key := ev.Reference
	if key == "" {
		key = ev.Type
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		utils.LogEvent("", "events", "publish", err.Error())
	}
}

// Close flushes buffered messages on shutdown.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
