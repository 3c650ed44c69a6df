//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "campsite"
	BookingsCollection  = "bookings"

	opTimeout = 5 * time.Second
)

// MongoHelper reads and resets the service database behind the API under test.
type MongoHelper struct {
	bookings *mongo.Collection
}

// NewMongoHelper connects and disconnects again when the test ends.
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "connect to %s", mongoURI)
	require.NoError(t, client.Ping(ctx, nil), "ping %s", mongoURI)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("mongo disconnect: %v", err)
		}
	})

	return &MongoHelper{bookings: client.Database(dbName).Collection(BookingsCollection)}
}

// CleanBookings deletes documents only, so the indexes created by the migration survive.
func (m *MongoHelper) CleanBookings(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := m.bookings.DeleteMany(ctx, bson.M{})
	require.NoError(t, err, "clean %s", BookingsCollection)
}

func (m *MongoHelper) CountBookings(t *testing.T, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	count, err := m.bookings.CountDocuments(ctx, filter)
	require.NoError(t, err, "count %s", BookingsCollection)
	return count
}
