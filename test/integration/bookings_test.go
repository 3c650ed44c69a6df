//go:build integration

package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"campsite/internal/bookings/validator"
	"campsite/pkg/client"
	"campsite/pkg/model"
	"campsite/test/integration/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func create(t *testing.T, c *client.BookingClient, req *model.BookingCreate) *model.Booking {
	t.Helper()
	resp, err := c.Create(context.Background(), req, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.String())
	booking, err := c.DecodeBooking(resp)
	require.NoError(t, err)
	return booking
}

func TestCreateAndGet(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()

	created := create(t, c, testutil.NewBookingBuilder().WithDates(3, 4).Build())
	assert.Positive(t, created.BookingID)
	assert.Equal(t, model.StatusConfirmed, created.Status)

	resp, err := c.GetByID(ctx, created.BookingID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.TransactionID())

	got, err := c.DecodeBooking(resp)
	require.NoError(t, err)
	assert.Equal(t, created.FromDate, got.FromDate)
	assert.Equal(t, created.ToDate, got.ToDate)
}

func TestCreate_OverlapRejected(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)

	create(t, c, testutil.NewBookingBuilder().WithDates(3, 5).Build())

	resp, err := c.Create(context.Background(), testutil.NewBookingBuilder().WithDates(5, 6).Build(), "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"Booking dates not available"}, client.GetErrorMessages(resp))
}

func TestCreate_InvalidDates(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.BookingCreate
		msg  string
	}{
		{"bad format", testutil.NewBookingBuilder().WithRawDates("2020-12-33", testutil.Day(3)).Build(), validator.MsgFromDateFormat},
		{"today", testutil.NewBookingBuilder().WithDates(0, 1).Build(), validator.MsgDatesNotInRange},
		{"too long", testutil.NewBookingBuilder().WithDates(3, 6).Build(), validator.MsgDatesNotInRange},
		{"too far", testutil.NewBookingBuilder().WithDates(31, 31).Build(), validator.MsgDatesNotInRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Create(ctx, tt.req, "")
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, []string{tt.msg}, client.GetErrorMessages(resp))
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)

	resp, err := c.CreateRaw(context.Background(), []byte(`{"firstName":`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreate_ConcurrentSameDates(t *testing.T) {
	mongo, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	statuses := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.Create(ctx, testutil.NewBookingBuilder().WithDates(7, 8).Build(), "")
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	created := 0
	for status := range statuses {
		if status == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), mongo.CountBookings(t, bson.M{"bookingStatus": "CONFIRMED"}))
}

func TestCreate_IdempotencyKeyReplays(t *testing.T) {
	mongo, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()
	req := testutil.NewBookingBuilder().WithDates(9, 9).Build()
	key := uuid.NewString()

	first, err := c.Create(ctx, req, key)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, err := c.Create(ctx, req, key)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, string(first.Body), string(second.Body))
	assert.Equal(t, int64(1), mongo.CountBookings(t, bson.M{}))
}

func TestModifyAndCancel(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()

	booking := create(t, c, testutil.NewBookingBuilder().WithDates(10, 11).Build())

	resp, err := c.Modify(ctx, booking.BookingID, &model.BookingModify{
		Action:   model.ActionModify,
		FromDate: testutil.Day(11),
		ToDate:   testutil.Day(12),
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.String())
	modified, err := c.DecodeBooking(resp)
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(11), modified.FromDate)
	require.Len(t, modified.ChangeHistory, 1)
	assert.Equal(t, testutil.Day(10), modified.ChangeHistory[0].FromDate)

	resp, err = c.Cancel(ctx, booking.BookingID, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{validator.MsgReasonRequired}, client.GetErrorMessages(resp))

	resp, err = c.Cancel(ctx, booking.BookingID, "plans changed")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cancelled, err := c.DecodeBooking(resp)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, "plans changed", cancelled.CancellationReason)

	resp, err = c.Cancel(ctx, booking.BookingID, "again")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	create(t, c, testutil.NewBookingBuilder().WithDates(11, 12).Build())
}

func TestGet_NotFound(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)

	resp, err := c.GetByID(context.Background(), 987654321)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"BookingId: 987654321 is not found"}, client.GetErrorMessages(resp))
}

func TestSearchAndAvailability(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	ctx := context.Background()

	mine := create(t, c, testutil.NewBookingBuilder().WithEmail("camper@example.com").WithDates(14, 15).Build())
	create(t, c, testutil.NewBookingBuilder().WithDates(17, 17).Build())

	resp, err := c.Search(ctx, "camper@example.com", "", "", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found, err := c.DecodeBookings(resp)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mine.BookingID, found[0].BookingID)

	resp, err = c.Search(ctx, "", "2020-12-33", "", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found, err = c.DecodeBookings(resp)
	require.NoError(t, err)
	assert.Empty(t, found)

	resp, err = c.Availability(ctx, testutil.Day(13), testutil.Day(17))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	days, err := c.DecodeDays(resp)
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.Day(13), testutil.Day(16)}, days)
}
