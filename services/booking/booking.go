package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/database"
	bookingRepo "hausly/database/repository/booking"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Users       UserLookup
	Services    ServiceLookup
	Repo        bookingRepo.BookingRepository
	Idempotency IdempotencyStore
	Dispatcher  Dispatcher
	Logger      *zap.Logger
}

func (s *DefaultBookingService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// CreateBooking runs the checks in a fixed order: caller record, service existence,
// self-booking, role, service availability. The first failing check wins.
func (s *DefaultBookingService) CreateBooking(
	ctx context.Context,
	id models.Identity,
	req models.CreateBookingRequest,
	idemKey string,
) (*CreateResult, error) {
	scopedKey := ""
	if idemKey != "" && s.Idempotency != nil {
		scopedKey = id.UID + ":" + idemKey
		existingID, claimed, err := s.Idempotency.Claim(ctx, scopedKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return s.replay(ctx, existingID)
		}
	}

	result, err := s.createBooking(ctx, id, req)
	if scopedKey == "" {
		return result, err
	}
	if err != nil {
		if relErr := s.Idempotency.Release(ctx, scopedKey); relErr != nil {
			s.log().Warn("CreateBooking: failed to release idempotency key", zap.Error(relErr))
		}
		return nil, err
	}
	s.completeKey(ctx, scopedKey, result.Booking.ID.Hex())
	return result, nil
}

const completeAttempts = 3

// completeKey binds the key to the new booking. If that keeps failing the key is
// released, so a retry creates a fresh booking instead of a day of DUPLICATE_REQUEST.
func (s *DefaultBookingService) completeKey(ctx context.Context, key, bookingID string) {
	var err error
retry:
	for attempt := 1; attempt <= completeAttempts; attempt++ {
		if err = s.Idempotency.Complete(ctx, key, bookingID); err == nil {
			return
		}
		if attempt == completeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			break retry
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	s.log().Warn("CreateBooking: failed to record idempotency key, releasing it",
		zap.String("bookingId", bookingID), zap.Error(err))
	if relErr := s.Idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
		s.log().Warn("CreateBooking: failed to release idempotency key", zap.Error(relErr))
	}
}

func (s *DefaultBookingService) replay(ctx context.Context, bookingID string) (*CreateResult, error) {
	if bookingID == "" {
		return nil, utils.NewConflictError(utils.CodeDuplicateRequest, "A request with this Idempotency-Key is already in progress")
	}
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %q: %w", bookingID, err)
	}
	b, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to load replayed booking: %w", err)
	}
	res := &CreateResult{Booking: b, ServiceTitle: b.ServiceTitle, Replayed: true}
	// The provider's display name lives on the service, not the booking.
	if svc, err := s.Services.GetByID(ctx, b.ServiceID); err == nil {
		res.ProviderName = svc.ProviderName
	} else if !errors.Is(err, database.ErrNotFound) {
		s.log().Warn("CreateBooking: replay could not load service", zap.String("serviceId", b.ServiceID.Hex()), zap.Error(err))
	}
	return res, nil
}

func (s *DefaultBookingService) createBooking(ctx context.Context, id models.Identity, req models.CreateBookingRequest) (*CreateResult, error) {
	user, err := s.Users.GetByUID(ctx, id.UID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeUserNotFound, "User profile not found")
		}
		return nil, err
	}

	serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
	if err != nil {
		return nil, utils.NewValidationError(utils.CodeInvalidID, "Invalid service ID format")
	}
	svc, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeServiceNotFound, "Service not found")
		}
		return nil, err
	}

	if svc.ProviderID == user.UID {
		return nil, utils.NewValidationError(utils.CodeSelfBooking, "You cannot book your own service")
	}
	switch user.Role {
	case models.RoleCustomer, models.RoleAdmin:
	case models.RoleProvider:
		return nil, utils.NewForbiddenError(utils.CodeProviderBooking, "Service providers cannot book services")
	default:
		return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "Only customers can book services")
	}
	if !svc.IsActive {
		return nil, utils.NewValidationError(utils.CodeServiceInactive, "This service is not currently available")
	}

	b := &models.Booking{
		ServiceID:     svc.ID,
		ServiceTitle:  svc.Title,
		UserID:        user.UID,
		UserEmail:     user.Email,
		UserName:      user.Name,
		ProviderID:    svc.ProviderID,
		Date:          req.Date,
		Time:          req.Time,
		Address:       req.Address,
		Notes:         req.Notes,
		Status:        models.StatusPending,
		Price:         svc.Price,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
	}

	if err := s.Repo.CreateForActiveService(ctx, b); err != nil {
		if errors.Is(err, database.ErrServiceUnavailable) {
			return nil, utils.NewValidationError(utils.CodeServiceInactive, "This service is not currently available")
		}
		return nil, err
	}

	s.log().Info("Booking created",
		zap.String("bookingId", b.ID.Hex()),
		zap.String("serviceId", svc.ID.Hex()),
		zap.String("userId", user.UID),
	)

	if s.Dispatcher != nil {
		if err := s.Dispatcher.BookingCreated(ctx, b); err != nil {
			s.log().Warn("CreateBooking: failed to enqueue notification", zap.String("bookingId", b.ID.Hex()), zap.Error(err))
		}
	}

	return &CreateResult{Booking: b, ServiceTitle: svc.Title, ProviderName: svc.ProviderName}, nil
}
