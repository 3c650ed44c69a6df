package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"campsite/pkg/kafka"
	"campsite/pkg/logger"
	"campsite/pkg/metrics"

	"github.com/stretchr/testify/assert"
)

func TestLoggingProducerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf, Service: "test"})
	mw := LoggingProducerMiddleware(log)

	msg := kafka.Message{Key: "9", Topic: "booking.changes", Headers: map[string]string{
		kafka.HeaderEventType:     "booking.cancelled",
		kafka.HeaderCorrelationID: "T3",
	}}

	err := mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"message published"`)
	assert.Contains(t, buf.String(), `"correlation_id":"T3"`)

	buf.Reset()
	failure := errors.New("broker down")
	err = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return failure })
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "broker down")
}

func TestMetricsProducerMiddleware_PassesErrorThrough(t *testing.T) {
	mw := MetricsProducerMiddleware(metrics.New("test"))
	failure := errors.New("broker down")

	assert.NoError(t, mw(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return nil }))
	assert.ErrorIs(t, mw(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return failure }), failure)
}
