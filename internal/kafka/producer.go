package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// LedgerEvent is published after every committed state transition so the
// settlement and notification collaborators can react off-ledger.
type LedgerEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	FlightID  string    `json:"flight_id"`
	Passenger string    `json:"passenger,omitempty"`
	Price     int64     `json:"price,omitempty"`
	Refund    int64     `json:"refund,omitempty"`
	Status    string    `json:"status"`
	Time      time.Time `json:"time"`
}

const (
	EventFlightCreated   = "flight_created"
	EventTicketPurchased = "ticket_purchased"
	EventTicketCancelled = "ticket_cancelled"
	EventStatusChanged   = "status_changed"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
