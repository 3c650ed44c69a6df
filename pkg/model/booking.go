package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// ParseBookingStatus accepts a status name in any letter case.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// Booking is a reservation of the campsite for an inclusive range of days.
// Days is always the expansion of FromDate..ToDate and backs the exclusivity index.
type Booking struct {
	ObjectID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	BookingID           int64              `json:"bookingId" bson:"bookingId"`
	FirstName           string             `json:"firstName" bson:"firstName"`
	LastName            string             `json:"lastName" bson:"lastName"`
	Email               string             `json:"email" bson:"email"`
	FromDate            string             `json:"fromDate" bson:"fromDate"`
	ToDate              string             `json:"toDate" bson:"toDate"`
	Days                []string           `json:"days,omitempty" bson:"days"`
	Status              BookingStatus      `json:"bookingStatus" bson:"bookingStatus"`
	CancellationReason  string             `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	LastUpdateTimestamp time.Time          `json:"lastUpdateTimestamp" bson:"lastUpdateTimestamp"`
	ChangeHistory       []Booking          `json:"changeHistory,omitempty" bson:"changeHistory,omitempty"`
}

type BookingCreate struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	FromDate  string `json:"fromDate"`
	ToDate    string `json:"toDate"`
}

type BookingAction string

const (
	ActionModify BookingAction = "MODIFY"
	ActionCancel BookingAction = "CANCEL"
)

// BookingModify is the wire shape of a PUT on an existing booking.
type BookingModify struct {
	Action   BookingAction `json:"action" validate:"required,oneof=MODIFY CANCEL"`
	FromDate string        `json:"fromDate,omitempty"`
	ToDate   string        `json:"toDate,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// BookingChange is one accepted transition request: a ChangeDates or a CancelBooking.
type BookingChange interface {
	bookingChange()
}

type ChangeDates struct {
	FromDate string
	ToDate   string
}

type CancelBooking struct {
	Reason string
}

func (ChangeDates) bookingChange()   {}
func (CancelBooking) bookingChange() {}

// Change converts the request into its tagged variant.
func (m *BookingModify) Change() (BookingChange, error) {
	switch BookingAction(strings.ToUpper(string(m.Action))) {
	case ActionModify:
		return ChangeDates{FromDate: m.FromDate, ToDate: m.ToDate}, nil
	case ActionCancel:
		return CancelBooking{Reason: m.Reason}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", m.Action)
	}
}

// BookingFilter holds optional, conjunctive query criteria. Zero values are ignored.
// From and To bound the booking range: fromDate >= From and toDate <= To.
type BookingFilter struct {
	Email  string
	From   string
	To     string
	Status BookingStatus
}
