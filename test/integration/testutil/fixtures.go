//go:build integration

package testutil

import (
	"time"

	"campsite/pkg/daterange"
	"campsite/pkg/model"

	"github.com/google/uuid"
)

// Day returns the calendar date offset days from today in UTC, formatted YYYY-MM-DD.
// The service under test is expected to run with TIME_ZONE=UTC.
func Day(offset int) string {
	today := time.Now().UTC()
	return daterange.Format(time.Date(today.Year(), today.Month(), today.Day()+offset, 0, 0, 0, 0, time.UTC))
}

type BookingBuilder struct {
	b model.BookingCreate
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		b: model.BookingCreate{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane." + uuid.NewString()[:8] + "@example.com",
			FromDate:  Day(5),
			ToDate:    Day(6),
		},
	}
}

func (b *BookingBuilder) WithDates(fromOffset, toOffset int) *BookingBuilder {
	b.b.FromDate = Day(fromOffset)
	b.b.ToDate = Day(toOffset)
	return b
}

func (b *BookingBuilder) WithRawDates(from, to string) *BookingBuilder {
	b.b.FromDate = from
	b.b.ToDate = to
	return b
}

func (b *BookingBuilder) WithEmail(email string) *BookingBuilder {
	b.b.Email = email
	return b
}

func (b *BookingBuilder) Build() *model.BookingCreate {
	out := b.b
	return &out
}
