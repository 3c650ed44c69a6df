package kafka_config

import "time"

const (
	// Empty broker list disables the change feed.
	DefaultKafkaBrokers = ""

	DefaultBookingTopic = "booking.changes"
	DefaultDLQTopic     = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
	DefaultPublishTimeout       = 2 * time.Second
)
