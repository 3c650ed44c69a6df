package service

import (
	bookingserrors "campsite/internal/bookings/errors"
	"campsite/internal/bookings/events"
	"campsite/internal/bookings/repository"
	"campsite/internal/bookings/validator"
	"campsite/pkg/config"
	"campsite/pkg/daterange"
	apperrors "campsite/pkg/errors"
	"campsite/pkg/logger"
	"campsite/pkg/metrics"
	"campsite/pkg/model"
	"campsite/pkg/sanitizer"
	"context"
	"errors"
	"sort"
	"strings"
)

const (
	opCreate = "create"
	opModify = "modify"
	opCancel = "cancel"

	MsgBookingIDResource  = "BookingId"
	MsgNotConfirmed       = "Only confirmed booking can be modified"
	MsgInProgress         = "Booking is already in progress and cannot be modified"
	MsgNoLongerModifiable = "Booking is no longer modifiable"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	Modify(ctx context.Context, id int64, req *model.BookingModify) (*model.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	GetBookings(ctx context.Context, email, fromDate, toDate, status string) ([]*model.Booking, error)
	GetAvailability(ctx context.Context, fromDate, toDate string) ([]string, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	seq       repository.SequenceRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewBookingService wires the lifecycle manager. publisher and m may be nil.
func NewBookingService(
	repo repository.BookingRepository,
	seq repository.SequenceRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{
		repo:      repo,
		seq:       seq,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	sanitizer.SanitizeBookingCreate(req)

	dates, err := s.validator.ValidateCreate(req)
	if err != nil {
		return nil, s.fail(ctx, opCreate, 0, err)
	}

	id, err := s.seq.NextBookingID(ctx)
	if err != nil {
		return nil, s.fail(ctx, opCreate, 0, err)
	}

	booking := &model.Booking{
		BookingID: id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		FromDate:  dates.FromDate(),
		ToDate:    dates.ToDate(),
		Days:      dates.Days(),
		Status:    model.StatusConfirmed,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, s.fail(ctx, opCreate, id, err)
	}

	s.accepted(ctx, opCreate, events.TypeCreated, booking)
	return booking, nil
}

// Modify applies a MODIFY or CANCEL request to a confirmed booking. Request shape and
// dates are checked before the booking's current state.
func (s *bookingService) Modify(ctx context.Context, id int64, req *model.BookingModify) (*model.Booking, error) {
	sanitizer.SanitizeBookingModify(req)
	op := opModify
	if req.Action == model.ActionCancel {
		op = opCancel
	}

	change, dates, err := s.validator.ValidateModify(req)
	if err != nil {
		return nil, s.fail(ctx, op, id, err)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, id, err)
	}
	if err := s.validator.ValidateModifiable(current); err != nil {
		return nil, s.fail(ctx, op, id, err)
	}

	var mutation repository.Mutation
	eventType := events.TypeModified
	switch c := change.(type) {
	case model.ChangeDates:
		mutation = repository.Reschedule{From: dates.FromDate(), To: dates.ToDate(), Days: dates.Days()}
	case model.CancelBooking:
		mutation = repository.Cancel{Reason: c.Reason}
		eventType = events.TypeCancelled
	}

	updated, err := s.repo.CompareAndUpdate(ctx, id, model.StatusConfirmed, mutation)
	if err != nil {
		return nil, s.fail(ctx, op, id, err)
	}

	s.accepted(ctx, op, eventType, updated)
	return updated, nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	return s.Modify(ctx, id, &model.BookingModify{Action: model.ActionCancel, Reason: reason})
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID(MsgBookingIDResource, id)
		}
		s.log(ctx).Error("Failed to retrieve booking", "booking_id", id, "error", err)
		return nil, apperrors.SystemFailure("Failed to retrieve booking", err)
	}
	return booking, nil
}

// GetBookings never rejects filter input: an unparsable date or unknown status yields no results.
func (s *bookingService) GetBookings(ctx context.Context, email, fromDate, toDate, status string) ([]*model.Booking, error) {
	filter, ok := buildFilter(email, fromDate, toDate, status)
	if !ok {
		s.log(ctx).Warn("Ignoring booking search with invalid filter",
			"from_date", fromDate, "to_date", toDate, "status", status)
		return []*model.Booking{}, nil
	}

	bookings, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		s.log(ctx).Error("Failed to search bookings", "error", err)
		return nil, apperrors.SystemFailure("Failed to retrieve bookings", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func buildFilter(email, fromDate, toDate, status string) (model.BookingFilter, bool) {
	filter := model.BookingFilter{Email: sanitizer.NormalizeEmail(email)}

	if fromDate = sanitizer.NormalizeDate(fromDate); fromDate != "" {
		if _, err := daterange.Parse(fromDate); err != nil {
			return filter, false
		}
		filter.From = fromDate
	}
	if toDate = sanitizer.NormalizeDate(toDate); toDate != "" {
		if _, err := daterange.Parse(toDate); err != nil {
			return filter, false
		}
		filter.To = toDate
	}
	if strings.TrimSpace(status) != "" {
		st, err := model.ParseBookingStatus(status)
		if err != nil {
			return filter, false
		}
		filter.Status = st
	}
	return filter, true
}

// GetAvailability lists the days in fromDate..toDate not held by a confirmed booking.
func (s *bookingService) GetAvailability(ctx context.Context, fromDate, toDate string) ([]string, error) {
	from, errFrom := daterange.Parse(sanitizer.NormalizeDate(fromDate))
	to, errTo := daterange.Parse(sanitizer.NormalizeDate(toDate))
	if errFrom != nil || errTo != nil || from.After(to) {
		return []string{}, nil
	}
	if limit := s.cfg.Booking.MaxDaysInAdvance + s.cfg.Booking.MaxDuration; daterange.DaysBetween(from, to) > limit {
		to = from.AddDate(0, 0, limit)
	}

	window := daterange.ExpandDays(from, to)
	taken, err := s.repo.FindConfirmedOverlapping(ctx, window[0], window[len(window)-1])
	if err != nil {
		s.log(ctx).Error("Failed to load confirmed bookings", "error", err)
		return nil, apperrors.SystemFailure("Failed to retrieve availability", err)
	}

	occupied := make(map[string]struct{})
	for _, b := range taken {
		for _, d := range b.Days {
			occupied[d] = struct{}{}
		}
	}

	free := make([]string, 0, len(window))
	for _, d := range window {
		if _, ok := occupied[d]; !ok {
			free = append(free, d)
		}
	}
	sort.Strings(free)
	return free, nil
}

// fail translates validator and store errors into AppErrors, logs and counts the outcome.
func (s *bookingService) fail(ctx context.Context, op string, id int64, err error) error {
	log := s.log(ctx)

	var verrs validator.ValidationErrors
	var dateErr *validator.DateError
	var appErr *apperrors.AppError
	outcome := metrics.OutcomeRejected

	switch {
	case errors.As(err, &verrs):
		appErr = apperrors.ValidationFailed(verrs.Messages()...)
	case errors.As(err, &dateErr):
		appErr = apperrors.DatesInvalid(dateErr.Message)
	case errors.Is(err, bookingserrors.ErrNotFound):
		appErr = apperrors.NotFoundWithID(MsgBookingIDResource, id)
	case errors.Is(err, bookingserrors.ErrNotConfirmed):
		appErr = apperrors.AlreadyCancelled(MsgNotConfirmed)
	case errors.Is(err, bookingserrors.ErrInProgress):
		appErr = apperrors.AlreadyInProgress(MsgInProgress)
	case errors.Is(err, bookingserrors.ErrPreconditionFailed):
		appErr = apperrors.AlreadyCancelled(MsgNoLongerModifiable)
		appErr.Err = err
	case errors.Is(err, bookingserrors.ErrConflict):
		appErr = apperrors.DateNotAvailable(err)
		outcome = metrics.OutcomeConflict
	default:
		s.metrics.BookingOperation(op, metrics.OutcomeFailed)
		log.Error("Booking operation failed", "operation", op, "booking_id", id, "error", err)
		return apperrors.SystemFailure("Failed to "+op+" booking", err)
	}

	s.metrics.BookingOperation(op, outcome)
	log.Warn("Booking request rejected", "operation", op, "booking_id", id, "code", appErr.Code, "error", err)
	return appErr
}

func (s *bookingService) accepted(ctx context.Context, op, eventType string, booking *model.Booking) {
	s.metrics.BookingOperation(op, metrics.OutcomeAccepted)

	log := s.log(ctx)
	log.Info("Booking "+op+" accepted",
		"booking_id", booking.BookingID,
		"from_date", booking.FromDate,
		"to_date", booking.ToDate,
		"status", booking.Status,
	)

	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		log.Error("Failed to publish booking event",
			"booking_id", booking.BookingID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func (s *bookingService) log(ctx context.Context) *logger.Logger {
	return s.cfg.Log.WithTransaction(ctx)
}
