package kafka_config

import (
	"campsite/pkg/env"
	"slices"
	"time"
)

// Config holds the change feed producer settings.
type Config struct {
	Brokers []string

	BookingTopic string
	DLQTopic     string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 all replicas, 0 none, 1 leader only
	ProducerCompression  string // none, gzip, snappy, lz4 or zstd
	ProducerAsync        bool
	PublishTimeout       time.Duration
}

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

// Load reads the Kafka settings from the environment. A Config with no brokers is
// valid and means the change feed is disabled.
func Load() (*Config, error) {
	cfg := &Config{
		Brokers: env.List(EnvKafkaBrokers, DefaultKafkaBrokers),

		BookingTopic: env.String(EnvKafkaBookingTopic, DefaultBookingTopic),
		DLQTopic:     env.String(EnvKafkaDLQTopic, DefaultDLQTopic),

		ProducerMaxAttempts:  env.Int(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: env.Duration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  env.Int(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  env.String(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerAsync:        env.Bool(EnvKafkaProducerAsync, DefaultProducerAsync),
		PublishTimeout:       env.Duration(EnvKafkaPublishTimeout, DefaultPublishTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

// Validate checks producer settings. A disabled feed is always valid.
func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	var problems env.Problems
	if cfg.BookingTopic == "" {
		problems.Addf("BookingTopic cannot be empty")
	}
	if cfg.DLQTopic != "" && cfg.DLQTopic == cfg.BookingTopic {
		problems.Addf("DLQTopic must differ from BookingTopic, got: %s", cfg.DLQTopic)
	}
	if cfg.ProducerMaxAttempts <= 0 {
		problems.Addf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts)
	}
	if cfg.ProducerBatchTimeout <= 0 {
		problems.Addf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout)
	}
	if cfg.PublishTimeout <= 0 {
		problems.Addf("PublishTimeout must be positive, got: %s", cfg.PublishTimeout)
	}
	if !slices.Contains(compressions, cfg.ProducerCompression) {
		problems.Addf("ProducerCompression must be one of %v, got: %s", compressions, cfg.ProducerCompression)
	}
	if cfg.ProducerRequireAcks < -1 || cfg.ProducerRequireAcks > 1 {
		problems.Addf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks)
	}

	return problems.Err("Kafka configuration validation failed")
}

// LogConfiguration reports the settings through any key/value log function.
func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}
	if !cfg.Enabled() {
		logFunc("Kafka change feed disabled", "env", EnvKafkaBrokers)
		return
	}

	logFunc("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"booking_topic", cfg.BookingTopic,
		"dlq_topic", cfg.DLQTopic,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_batch_timeout", cfg.ProducerBatchTimeout,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
		"publish_timeout", cfg.PublishTimeout,
	)
}
