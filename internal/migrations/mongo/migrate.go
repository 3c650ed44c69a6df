package mongo

import (
	"campsite/internal/migrations/mongo/validators"
	"campsite/pkg/logger"
	"campsite/pkg/model"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingsCollection            = "bookings"
	BookingSequenceCollection     = "bookingSequence"
	TransactionSequenceCollection = "transactionSequence"

	// ExclusiveDaysIndex is the correctness-critical index: one confirmed booking per day.
	ExclusiveDaysIndex = "exclusive_confirmed_days"
)

// Server error codes for an index that exists under the same name or keys with other options.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

var BookingsIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{{Key: "days", Value: 1}, {Key: "bookingStatus", Value: 1}},
		Options: options.Index().
			SetName(ExclusiveDaysIndex).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"bookingStatus": model.StatusConfirmed}),
	},
	{
		Keys:    bson.D{{Key: "bookingId", Value: 1}},
		Options: options.Index().SetName("booking_id").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email"),
	},
	{
		Keys:    bson.D{{Key: "bookingStatus", Value: 1}},
		Options: options.Index().SetName("booking_status"),
	},
	{
		Keys:    bson.D{{Key: "fromDate", Value: 1}, {Key: "toDate", Value: 1}},
		Options: options.Index().SetName("date_range"),
	},
}

// RunMigration creates the booking collections and indexes. Safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	if err := ensureCollection(ctx, db, BookingsCollection, validators.BookingValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", BookingsCollection, err)
	}
	if err := ensureIndexes(ctx, db, BookingsCollection, BookingsIndexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", BookingsCollection, err)
	}

	for _, name := range []string{BookingSequenceCollection, TransactionSequenceCollection} {
		if err := ensureCollection(ctx, db, name, nil, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

// ensureIndexes creates each index separately so an existing, conflicting one does not block the rest.
func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	for _, index := range models {
		indexName, err := coll.Indexes().CreateOne(ctx, index)
		if err != nil {
			if isIndexConflict(err) {
				log.Warn("Index already exists with different options", "collection", name, "error", err)
				continue
			}
			return err
		}
		log.Debug("Ensured index", "collection", name, "index", indexName)
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict
	}
	return false
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists"
}
