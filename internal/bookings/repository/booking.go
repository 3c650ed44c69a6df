package repository

import (
	bookingserrors "campsite/internal/bookings/errors"
	mongoMigration "campsite/internal/migrations/mongo"
	"campsite/pkg/clock"
	"campsite/pkg/config"
	"campsite/pkg/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"

	fieldBookingID           = "bookingId"
	fieldEmail               = "email"
	fieldFromDate            = "fromDate"
	fieldToDate              = "toDate"
	fieldDays                = "days"
	fieldStatus              = "bookingStatus"
	fieldCancellationReason  = "cancellationReason"
	fieldLastUpdateTimestamp = "lastUpdateTimestamp"
	fieldChangeHistory       = "changeHistory"
)

// Mutation is a state change applied by CompareAndUpdate: a Reschedule or a Cancel.
type Mutation interface {
	fields() bson.D
}

// Reschedule replaces the booked range. Days must be the expansion of From..To.
type Reschedule struct {
	From string
	To   string
	Days []string
}

// Cancel moves the booking to CANCELLED.
type Cancel struct {
	Reason string
}

func (m Reschedule) fields() bson.D {
	return bson.D{
		{Key: fieldFromDate, Value: literal(m.From)},
		{Key: fieldToDate, Value: literal(m.To)},
		{Key: fieldDays, Value: literal(m.Days)},
	}
}

func (m Cancel) fields() bson.D {
	return bson.D{
		{Key: fieldStatus, Value: literal(model.StatusCancelled)},
		{Key: fieldCancellationReason, Value: literal(m.Reason)},
	}
}

// literal keeps user-supplied strings that start with "$" from being read as field paths.
func literal(v any) bson.M {
	return bson.M{"$literal": v}
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	FindByFilter(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	FindConfirmedOverlapping(ctx context.Context, from, to string) ([]*model.Booking, error)
	CompareAndUpdate(ctx context.Context, id int64, expected model.BookingStatus, mutation Mutation) (*model.Booking, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	clock      clock.Clock
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoBookingRepository stamps lastUpdateTimestamp from clk on every write.
func NewMongoBookingRepository(cfg *config.Config, clk clock.Clock) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		clock:      clk,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) now() time.Time {
	return r.clock.Now().UTC().Truncate(time.Millisecond)
}

// isDayConflict reports a duplicate key on the exclusive days index. Duplicates on
// any other unique index are storage faults, not date conflicts.
func isDayConflict(err error) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), mongoMigration.ExclusiveDaysIndex)
}

// withTimeout bounds ctx by timeout without extending an earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Create inserts a confirmed booking. The partial unique index on days rejects overlaps with ErrConflict.
// Any other duplicate key, such as a reused bookingId, is returned as a plain error.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.LastUpdateTimestamp = r.now()
	booking.ChangeHistory = nil

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if isDayConflict(err) {
			return fmt.Errorf("%w: %v", bookingserrors.ErrConflict, err)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{fieldBookingID: id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByFilter(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, buildSearchFilter(filter))
}

// FindConfirmedOverlapping returns confirmed bookings sharing at least one day with from..to.
func (r *mongoBookingRepository) FindConfirmedOverlapping(ctx context.Context, from, to string) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		fieldStatus:   model.StatusConfirmed,
		fieldFromDate: bson.M{"$lte": to},
		fieldToDate:   bson.M{"$gte": from},
	}
	return r.find(ctx, filter)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: fieldFromDate, Value: 1}, {Key: fieldBookingID, Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func buildSearchFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}

	if f.Email != "" {
		filter[fieldEmail] = f.Email
	}
	if f.Status != "" {
		filter[fieldStatus] = f.Status
	}
	if f.From != "" {
		filter[fieldFromDate] = bson.M{"$gte": f.From}
	}
	if f.To != "" {
		filter[fieldToDate] = bson.M{"$lte": f.To}
	}

	return filter
}

// CompareAndUpdate applies mutation only while the booking still has the expected status.
// The pre-image is appended to changeHistory in the same document write.
func (r *mongoBookingRepository) CompareAndUpdate(ctx context.Context, id int64, expected model.BookingStatus, mutation Mutation) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		fieldBookingID: id,
		fieldStatus:    expected,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, updatePipeline(mutation, r.now()), opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}

	if isDayConflict(err) {
		return nil, fmt.Errorf("%w: %v", bookingserrors.ErrConflict, err)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, bookingserrors.ErrPreconditionFailed
}

func updatePipeline(mutation Mutation, now time.Time) mongo.Pipeline {
	set := append(mutation.fields(), bson.E{Key: fieldLastUpdateTimestamp, Value: literal(now)})

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: fieldChangeHistory, Value: bson.M{
				"$concatArrays": bson.A{
					bson.M{"$ifNull": bson.A{"$" + fieldChangeHistory, bson.A{}}},
					bson.A{"$$ROOT"},
				},
			}},
		}}},
		{{Key: "$unset", Value: bson.A{
			fieldChangeHistory + "." + fieldChangeHistory,
			fieldChangeHistory + "._id",
		}}},
		{{Key: "$set", Value: set}},
	}
}
