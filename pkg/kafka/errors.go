package kafka

import "errors"

// Publish errors. Broker failures are returned wrapped as they come from kafka-go.
var (
	ErrProducerClosed   = errors.New("kafka: producer closed")
	ErrInvalidMessage   = errors.New("kafka: invalid message")
	ErrMissingEventType = errors.New("kafka: message has no event type")
	ErrEmptyKey         = errors.New("kafka: empty message key")
	ErrEmptyValue       = errors.New("kafka: empty message value")
)
