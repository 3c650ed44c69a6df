package events

import (
	"context"
	"strconv"

	"campsite/pkg/kafka"
	"campsite/pkg/logger"
	"campsite/pkg/model"
)

const (
	TypeCreated   = "booking.created"
	TypeModified  = "booking.modified"
	TypeCancelled = "booking.cancelled"

	SchemaVersion = "1"
	Source        = "campsite-bookings"
)

// Publisher emits one change event per accepted booking mutation.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// ChangeEvent is the payload written to the change feed.
type ChangeEvent struct {
	Type    string         `json:"type"`
	Booking *model.Booking `json:"booking"`
}

type kafkaPublisher struct {
	producer MessagePublisher
}

func NewKafkaPublisher(producer MessagePublisher) Publisher {
	return &kafkaPublisher{producer: producer}
}

// Publish keys the event by booking id and correlates it with the request's transaction id.
func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	builder := kafka.NewMessage()
	if !booking.LastUpdateTimestamp.IsZero() {
		builder.WithTimestamp(booking.LastUpdateTimestamp)
	}
	msg, err := builder.
		WithKey(strconv.FormatInt(booking.BookingID, 10)).
		WithValue(ChangeEvent{Type: eventType, Booking: withoutHistory(booking)}).
		WithEventType(eventType).
		WithCorrelationID(logger.TransactionIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// withoutHistory drops the embedded change history; the feed itself is the history.
func withoutHistory(b *model.Booking) *model.Booking {
	cp := *b
	cp.ChangeHistory = nil
	return &cp
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, *model.Booking) error {
	return nil
}
