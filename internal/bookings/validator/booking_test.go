package validator

import (
	bookingserrors "campsite/internal/bookings/errors"
	"campsite/pkg/clock"
	"campsite/pkg/config"
	"campsite/pkg/logger"
	"campsite/pkg/model"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, 6, 15, 14, 30, 0, 0, time.UTC)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	policy := config.BookingPolicy{MinDaysInAdvance: 1, MaxDaysInAdvance: 30, MaxDuration: 3}
	return NewBookingValidator(log, policy, clock.NewMockClock(fixedNow))
}

func day(offset int) string {
	return fixedNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestValidateDates(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name      string
		from      string
		to        string
		wantField string
		wantMsg   string
	}{
		{name: "today is too early", from: day(0), to: day(1), wantMsg: MsgDatesNotInRange},
		{name: "three day stay from tomorrow", from: day(1), to: day(3)},
		{name: "four day stay exceeds max duration", from: day(1), to: day(4), wantMsg: MsgDatesNotInRange},
		{name: "single day", from: day(5), to: day(5)},
		{name: "reversed range", from: day(5), to: day(4), wantMsg: MsgDatesNotInRange},
		{name: "latest allowed start", from: day(30), to: day(31)},
		{name: "start beyond max days in advance", from: day(31), to: day(31), wantMsg: MsgDatesNotInRange},
		{name: "past dates", from: day(-3), to: day(-2), wantMsg: MsgDatesNotInRange},
		{name: "bad from format", from: "2030-13-01", to: day(2), wantField: "fromDate", wantMsg: MsgFromDateFormat},
		{name: "bad to format", from: day(1), to: "tomorrow", wantField: "toDate", wantMsg: MsgToDateFormat},
		{name: "both bad reports from first", from: "x", to: "y", wantField: "fromDate", wantMsg: MsgFromDateFormat},
		{name: "empty from", from: "", to: day(2), wantField: "fromDate", wantMsg: MsgFromDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateDates(tt.from, tt.to)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.from, got.FromDate())
				assert.Equal(t, tt.to, got.ToDate())
				return
			}

			var dateErr *DateError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, tt.wantMsg, dateErr.Message)
			assert.Equal(t, tt.wantField, dateErr.Field)
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	v := newTestValidator(t)

	r, err := v.ValidateDates(day(1), day(3))
	require.NoError(t, err)
	assert.Equal(t, []string{day(1), day(2), day(3)}, r.Days())
}

func TestValidateCreate(t *testing.T) {
	v := newTestValidator(t)

	valid := func() *model.BookingCreate {
		return &model.BookingCreate{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			FromDate:  day(2),
			ToDate:    day(3),
		}
	}

	t.Run("valid request", func(t *testing.T) {
		_, err := v.ValidateCreate(valid())
		assert.NoError(t, err)
	})

	t.Run("missing guest fields are all reported", func(t *testing.T) {
		req := valid()
		req.FirstName = ""
		req.Email = ""

		_, err := v.ValidateCreate(req)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		assert.Equal(t, "firstName", verrs[0].Field)
		assert.Equal(t, "firstName must not be blank", verrs[0].Message)
	})

	t.Run("malformed email", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"

		_, err := v.ValidateCreate(req)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "email must be a well-formed email address", verrs[0].Message)
	})

	t.Run("field errors win over date errors", func(t *testing.T) {
		req := valid()
		req.LastName = ""
		req.FromDate = "garbage"

		_, err := v.ValidateCreate(req)
		var verrs ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("date errors after field checks", func(t *testing.T) {
		req := valid()
		req.FromDate = day(0)

		_, err := v.ValidateCreate(req)
		var dateErr *DateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, MsgDatesNotInRange, dateErr.Message)
	})
}

func TestValidateModify(t *testing.T) {
	v := newTestValidator(t)

	t.Run("cancel with reason", func(t *testing.T) {
		change, dates, err := v.ValidateModify(&model.BookingModify{Action: model.ActionCancel, Reason: "weather"})
		require.NoError(t, err)
		assert.Nil(t, dates)
		assert.Equal(t, model.CancelBooking{Reason: "weather"}, change)
	})

	t.Run("cancel without reason", func(t *testing.T) {
		_, _, err := v.ValidateModify(&model.BookingModify{Action: model.ActionCancel, Reason: "   "})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{MsgReasonRequired}, verrs.Messages())
	})

	t.Run("modify with valid dates", func(t *testing.T) {
		change, dates, err := v.ValidateModify(&model.BookingModify{Action: model.ActionModify, FromDate: day(4), ToDate: day(5)})
		require.NoError(t, err)
		require.NotNil(t, dates)
		assert.Equal(t, model.ChangeDates{FromDate: day(4), ToDate: day(5)}, change)
		assert.Equal(t, []string{day(4), day(5)}, dates.Days())
	})

	t.Run("modify missing a date", func(t *testing.T) {
		_, _, err := v.ValidateModify(&model.BookingModify{Action: model.ActionModify, FromDate: day(4)})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{MsgModifyDatesRequired}, verrs.Messages())
	})

	t.Run("modify with out of range dates", func(t *testing.T) {
		_, _, err := v.ValidateModify(&model.BookingModify{Action: model.ActionModify, FromDate: day(1), ToDate: day(9)})
		var dateErr *DateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, MsgDatesNotInRange, dateErr.Message)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, _, err := v.ValidateModify(&model.BookingModify{Action: "EXTEND"})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "action", verrs[0].Field)
	})

	t.Run("missing action", func(t *testing.T) {
		_, _, err := v.ValidateModify(&model.BookingModify{})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "action must not be blank", verrs[0].Message)
	})
}

func TestValidateModifiable(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		booking *model.Booking
		wantErr error
	}{
		{
			name:    "confirmed and in the future",
			booking: &model.Booking{BookingID: 1, Status: model.StatusConfirmed, FromDate: day(1)},
		},
		{
			name:    "cancelled",
			booking: &model.Booking{BookingID: 2, Status: model.StatusCancelled, FromDate: day(5)},
			wantErr: bookingserrors.ErrNotConfirmed,
		},
		{
			name:    "starts today",
			booking: &model.Booking{BookingID: 3, Status: model.StatusConfirmed, FromDate: day(0)},
			wantErr: bookingserrors.ErrInProgress,
		},
		{
			name:    "started yesterday",
			booking: &model.Booking{BookingID: 4, Status: model.StatusConfirmed, FromDate: day(-1)},
			wantErr: bookingserrors.ErrInProgress,
		},
		{
			name:    "cancelled and started reports cancelled",
			booking: &model.Booking{BookingID: 5, Status: model.StatusCancelled, FromDate: day(-1)},
			wantErr: bookingserrors.ErrNotConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateModifiable(tt.booking)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestToday_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	log := logger.New(logger.Config{Output: io.Discard})
	policy := config.BookingPolicy{MinDaysInAdvance: 1, MaxDaysInAdvance: 30, MaxDuration: 3}

	// 02:00 UTC on the 16th is still the 15th five hours west.
	v := NewBookingValidator(log, policy, clock.NewMockClock(time.Date(2030, 6, 16, 2, 0, 0, 0, time.UTC).In(loc)))

	assert.Equal(t, "2030-06-15", v.Today().Format("2006-01-02"))
}
