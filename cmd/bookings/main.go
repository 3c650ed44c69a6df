package main

import (
	"campsite/internal/bookings/events"
	"campsite/internal/bookings/handler"
	"campsite/internal/bookings/repository"
	"campsite/internal/bookings/service"
	"campsite/internal/bookings/validator"
	mongoMigration "campsite/internal/migrations/mongo"
	"campsite/pkg/app"
	"campsite/pkg/clock"
	"campsite/pkg/config"
	"campsite/pkg/kafka"
	kafka_config "campsite/pkg/kafka/config"
	kafka_middleware "campsite/pkg/kafka/middleware"
	"campsite/pkg/metrics"
	"context"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()
	runMigrations(cfg)
	cfg.SetRedis()

	m := metrics.New(ServiceName)
	publisher, producer := initPublisher(cfg, m)

	sequences := repository.NewMongoSequenceRepository(cfg)
	bookingService := initServices(cfg, sequences, publisher, m)

	serverApp := app.NewApplication(cfg, m, sequences)
	if producer != nil {
		serverApp.OnShutdown(producer.Close)
	}
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

// runMigrations makes sure the collections and the exclusivity index exist
// before the first request is accepted.
func runMigrations(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}

func initPublisher(cfg *config.Config, m *metrics.Metrics) (events.Publisher, *kafka.Producer) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka not configured, booking change events disabled")
		return events.NewNoopPublisher(), nil
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(m))

	return events.NewKafkaPublisher(producer), producer
}

func initServices(cfg *config.Config, sequences repository.SequenceRepository, publisher events.Publisher, m *metrics.Metrics) service.BookingService {
	clk := clock.NewRealClock(cfg.Location)
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.Booking, clk)
	bookingRepo := repository.NewMongoBookingRepository(cfg, clk)
	bookingService := service.NewBookingService(
		bookingRepo,
		sequences,
		bookingValidator,
		publisher,
		m,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
