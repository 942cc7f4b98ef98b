package booking

import (
	"context"
	"errors"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func parseBookingID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(utils.CodeInvalidID, "Invalid booking ID format")
	}
	return oid, nil
}

func (s *DefaultBookingService) load(ctx context.Context, oid primitive.ObjectID) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeBookingNotFound, "Booking not found")
		}
		return nil, err
	}
	return b, nil
}

// checkParticipant allows admins and the booking's two parties.
func checkParticipant(sess *models.Session, b *models.Booking) error {
	if sess.IsAdmin() || b.IsParticipant(sess.UID) {
		return nil
	}
	return utils.NewForbiddenError(utils.CodeNotParticipant, "You are not a participant in this booking")
}

// authorizeTransition assumes checkParticipant passed. The provider may move a
// booking along any legal edge; the customer may only withdraw a pending request.
func authorizeTransition(sess *models.Session, b *models.Booking, to models.BookingStatus) error {
	if sess.IsAdmin() || sess.UID == b.ProviderID {
		return nil
	}
	if to == models.StatusCancelled && b.Status == models.StatusPending {
		return nil
	}
	return utils.NewForbiddenError(utils.CodeInsufficientPermission, "You are not allowed to change this booking to "+string(to))
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, sess *models.Session, bookingID, status string) (*StatusResult, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, utils.NewValidationError(utils.CodeInvalidStatus, "Invalid status")
	}
	to := models.BookingStatus(status)

	oid, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := s.load(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := checkParticipant(sess, b); err != nil {
		return nil, err
	}
	if b.Status == to {
		// A repeated cancel is fine for the customer; other repeats need provider rights.
		if to != models.StatusCancelled && !sess.IsAdmin() && sess.UID != b.ProviderID {
			return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "You are not allowed to change this booking to "+string(to))
		}
		return &StatusResult{Booking: b, Changed: false}, nil
	}
	if !b.Status.CanTransitionTo(to) {
		return nil, utils.NewValidationError(utils.CodeIllegalTransition,
			"Cannot change booking from "+string(b.Status)+" to "+string(to))
	}
	if err := authorizeTransition(sess, b, to); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateStatus(ctx, oid, b.Status, to)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		// Either deleted or moved by a concurrent writer.
		if _, loadErr := s.load(ctx, oid); loadErr != nil {
			return nil, loadErr
		}
		return nil, utils.NewConflictError(utils.CodeStatusConflict, "Booking status changed concurrently; reload and retry")
	}

	s.log().Info("Booking status updated",
		zap.String("bookingId", bookingID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)),
		zap.String("actor", sess.UID),
	)

	if s.Dispatcher != nil {
		if err := s.Dispatcher.StatusChanged(ctx, updated, sess.UID); err != nil {
			s.log().Warn("UpdateStatus: failed to enqueue notification", zap.String("bookingId", bookingID), zap.Error(err))
		}
		if to == models.StatusConfirmed {
			if err := s.Dispatcher.ScheduleReminder(ctx, updated); err != nil {
				s.log().Warn("UpdateStatus: failed to schedule reminder", zap.String("bookingId", bookingID), zap.Error(err))
			}
		}
	}

	return &StatusResult{Booking: updated, Changed: true}, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, sess *models.Session, bookingID string) (*StatusResult, error) {
	return s.UpdateStatus(ctx, sess, bookingID, string(models.StatusCancelled))
}
