package validator

import (
	bookingserrors "campsite/internal/bookings/errors"
	"campsite/pkg/clock"
	"campsite/pkg/config"
	"campsite/pkg/daterange"
	"campsite/pkg/logger"
	"campsite/pkg/model"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MsgFromDateFormat      = "FromDate format is not valid"
	MsgToDateFormat        = "ToDate format is not valid"
	MsgDatesNotInRange     = "Booking Dates not in range"
	MsgReasonRequired      = "Cancellation reason is required for cancel request"
	MsgModifyDatesRequired = "FromDate and ToDate are required for modify request"
	MsgActionNotAllowed    = "action must be one of: MODIFY CANCEL"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Messages returns one description per failed field.
func (v ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return messages
}

// DateError is a rejected date range. Field is "fromDate", "toDate" or "" for range-policy failures.
type DateError struct {
	Field   string
	Message string
}

func (e *DateError) Error() string {
	return e.Message
}

// DateRange is a validated, inclusive booking range.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) FromDate() string { return daterange.Format(r.From) }
func (r DateRange) ToDate() string   { return daterange.Format(r.To) }
func (r DateRange) Days() []string   { return daterange.ExpandDays(r.From, r.To) }

type BookingValidator struct {
	validate *validator.Validate
	policy   config.BookingPolicy
	clock    clock.Clock
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger, policy config.BookingPolicy, clk clock.Clock) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("not_blank", validateNotBlank); err != nil {
		log.Fatal("Failed to register 'not_blank' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully",
		"max_days_in_advance", policy.MaxDaysInAdvance,
		"min_days_in_advance", policy.MinDaysInAdvance,
		"max_duration", policy.MaxDuration,
	)

	return &BookingValidator{
		validate: v,
		policy:   policy,
		clock:    clk,
		logger:   log,
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Today is the current calendar day in the clock's location.
func (v *BookingValidator) Today() time.Time {
	return daterange.Truncate(v.clock.Now())
}

// ValidateCreate checks the guest fields and then the requested range.
func (v *BookingValidator) ValidateCreate(req *model.BookingCreate) (DateRange, error) {
	if err := v.validateStruct(req); err != nil {
		return DateRange{}, err
	}
	return v.ValidateDates(req.FromDate, req.ToDate)
}

// ValidateModify checks the request shape and, for MODIFY, the new range.
// The returned change is ChangeDates or CancelBooking.
func (v *BookingValidator) ValidateModify(req *model.BookingModify) (model.BookingChange, *DateRange, error) {
	if err := v.validateStruct(req); err != nil {
		return nil, nil, err
	}

	change, err := req.Change()
	if err != nil {
		return nil, nil, ValidationErrors{{Field: "action", Message: MsgActionNotAllowed}}
	}

	switch c := change.(type) {
	case model.CancelBooking:
		if strings.TrimSpace(c.Reason) == "" {
			return nil, nil, ValidationErrors{{Field: "reason", Message: MsgReasonRequired}}
		}
		return c, nil, nil

	case model.ChangeDates:
		if strings.TrimSpace(c.FromDate) == "" || strings.TrimSpace(c.ToDate) == "" {
			return nil, nil, ValidationErrors{{Field: "fromDate", Message: MsgModifyDatesRequired}}
		}
		dates, err := v.ValidateDates(c.FromDate, c.ToDate)
		if err != nil {
			return nil, nil, err
		}
		return c, &dates, nil
	}

	return nil, nil, ValidationErrors{{Field: "action", Message: MsgActionNotAllowed}}
}

// ValidateDates applies the format, order, duration and lead-time rules in that order.
func (v *BookingValidator) ValidateDates(fromDate, toDate string) (DateRange, error) {
	from, err := daterange.Parse(fromDate)
	if err != nil {
		return DateRange{}, &DateError{Field: "fromDate", Message: MsgFromDateFormat}
	}
	to, err := daterange.Parse(toDate)
	if err != nil {
		return DateRange{}, &DateError{Field: "toDate", Message: MsgToDateFormat}
	}

	today := v.Today()
	earliest := today.AddDate(0, 0, v.policy.MinDaysInAdvance)
	latest := today.AddDate(0, 0, v.policy.MaxDaysInAdvance)

	switch {
	case from.After(to),
		daterange.DaysBetween(from, to)+1 > v.policy.MaxDuration,
		from.Before(earliest),
		from.After(latest):
		return DateRange{}, &DateError{Message: MsgDatesNotInRange}
	}

	return DateRange{From: from, To: to}, nil
}

// ValidateModifiable rejects bookings that are not CONFIRMED or whose first day is not after today.
func (v *BookingValidator) ValidateModifiable(booking *model.Booking) error {
	if booking.Status != model.StatusConfirmed {
		return bookingserrors.ErrNotConfirmed
	}

	from, err := daterange.Parse(booking.FromDate)
	if err != nil {
		return fmt.Errorf("stored booking %d has invalid fromDate %q: %w", booking.BookingID, booking.FromDate, err)
	}
	if !from.After(v.Today()) {
		return bookingserrors.ErrInProgress
	}
	return nil
}

func (v *BookingValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := jsonFieldName(err.Field())
		message := err.Error()

		switch err.Tag() {
		case "required", "not_blank":
			message = fmt.Sprintf("%s must not be blank", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a well-formed email address", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
