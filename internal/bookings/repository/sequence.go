package repository

import (
	"campsite/pkg/config"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingSequenceCollection     = "bookingSequence"
	TransactionSequenceCollection = "transactionSequence"

	bookingCounter     = "bookingId"
	transactionCounter = "transactionId"
)

// SequenceRepository allocates ids from durable counters. Values are unique but may have gaps.
type SequenceRepository interface {
	NextBookingID(ctx context.Context) (int64, error)
	NextTransactionID(ctx context.Context) (string, error)
}

type mongoSequenceRepository struct {
	cfg          *config.Config
	bookings     *mongo.Collection
	transactions *mongo.Collection
}

func NewMongoSequenceRepository(cfg *config.Config) SequenceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSequenceRepository{
		cfg:          cfg,
		bookings:     db.Collection(BookingSequenceCollection),
		transactions: db.Collection(TransactionSequenceCollection),
	}
}

type counter struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

func (r *mongoSequenceRepository) NextBookingID(ctx context.Context) (int64, error) {
	return r.next(ctx, r.bookings, bookingCounter)
}

func (r *mongoSequenceRepository) NextTransactionID(ctx context.Context) (string, error) {
	n, err := r.next(ctx, r.transactions, transactionCounter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("T%d", n), nil
}

func (r *mongoSequenceRepository) next(ctx context.Context, collection *mongo.Collection, name string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	value, err := increment(ctx, collection, name)
	// Two first-time upserts on the same _id can race; the loser sees a duplicate key and the counter now exists.
	if mongo.IsDuplicateKeyError(err) {
		value, err = increment(ctx, collection, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s sequence: %w", name, err)
	}
	return value, nil
}

func increment(ctx context.Context, collection *mongo.Collection, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&c)
	return c.Value, err
}
