//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"campsite/pkg/client"
	"campsite/pkg/env"

	"github.com/stretchr/testify/require"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv points at a running bookings service and its database.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     env.String("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: env.String("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    env.String("TEST_SERVER_URL", "http://localhost:"+env.String("TEST_SERVER_PORT", "8080")),
	}
}

// Setup waits for the running service and empties the bookings collection before and after the test.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.BookingClient) {
	t.Helper()

	err := client.NewHttpClient(e.ServerURL).WaitForHealthy(context.Background(), DefaultHealthCheckTimeout)
	require.NoError(t, err, "service not reachable at %s", e.ServerURL)

	db := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	db.CleanBookings(t)
	t.Cleanup(func() { db.CleanBookings(t) })

	return db, client.NewBookingClient(e.ServerURL)
}
