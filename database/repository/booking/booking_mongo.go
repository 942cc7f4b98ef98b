package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/database"
	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const defaultListLimit = 100

// MongoBookingRepo implements BookingRepository. It writes to the services
// collection to guard the target service on insert.
type MongoBookingRepo struct {
	bookingColl     *mongo.Collection
	serviceColl     *mongo.Collection
	useTransactions bool
}

// NewMongoBookingRepo creates a booking repository. useTransactions requires a
// replica set; without it the service check and insert run back to back.
func NewMongoBookingRepo(useTransactions bool) BookingRepository {
	db := database.DB()
	repo := &MongoBookingRepo{
		bookingColl:     db.Collection("bookings"),
		serviceColl:     db.Collection("services"),
		useTransactions: useTransactions,
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("bookings: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoBookingRepo) CreateForActiveService(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	insert := func(sc context.Context) error {
		if err := r.claimService(sc, booking.ServiceID, 1); err != nil {
			return err
		}
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if !r.useTransactions {
		err := insert(ctx)
		if err != nil && !errors.Is(err, database.ErrServiceUnavailable) {
			// Undo the counter bump; there is no transaction to roll it back.
			if undoErr := r.claimService(context.WithoutCancel(ctx), booking.ServiceID, -1); undoErr != nil {
				zap.L().Warn("bookings: failed to undo service booking count", zap.Error(undoErr))
			}
		}
		return err
	}

	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	// WithTransaction retries on transient errors and unknown commit results.
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, insert(sc)
	})
	if err != nil {
		if errors.Is(err, database.ErrServiceUnavailable) {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// activeServiceGuard matches the service only while it is active and bumps its
// booking counter. The write puts the service document in the transaction's
// write set, so a concurrent deactivation conflicts instead of slipping past a read.
func activeServiceGuard(serviceID primitive.ObjectID, delta int) (filter, update bson.M) {
	filter = bson.M{"_id": serviceID}
	if delta > 0 {
		filter["isActive"] = true
	}
	update = bson.M{"$inc": bson.M{"bookingCount": delta}}
	return filter, update
}

func (r *MongoBookingRepo) claimService(ctx context.Context, serviceID primitive.ObjectID, delta int) error {
	filter, update := activeServiceGuard(serviceID, delta)
	res, err := r.serviceColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("service check failed: %w", err)
	}
	if res.MatchedCount == 0 && delta > 0 {
		return database.ErrServiceUnavailable
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id.Hex(), err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) List(ctx context.Context, q models.BookingQuery) ([]models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q.UserID != "" {
		filter["userId"] = q.UserID
	}
	if q.ProviderID != "" {
		filter["providerId"] = q.ProviderID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(limit)
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.bookingColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update booking %s: %w", id.Hex(), err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) CountByProviderStatus(ctx context.Context, providerID string, status models.BookingStatus) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	count, err := r.bookingColl.CountDocuments(ctx, bson.M{"providerId": providerID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
