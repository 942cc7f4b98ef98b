package booking

import (
	"context"

	"hausly/models"
	"hausly/utils"
)

func parseStatusFilter(status string) (models.BookingStatus, error) {
	if status == "" {
		return "", nil
	}
	if !models.IsValidBookingStatus(status) {
		return "", utils.NewValidationError(utils.CodeInvalidStatus, "Invalid status filter")
	}
	return models.BookingStatus(status), nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, sess *models.Session, bookingID string) (*models.Booking, error) {
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
	return b, nil
}

const (
	DefaultListPageSize = 50
	MaxListPageSize     = 100
)

func (s *DefaultBookingService) ListCustomerBookings(ctx context.Context, sess *models.Session, f models.BookingListFilter) (*models.BookingPage, error) {
	return s.listPage(ctx, models.BookingQuery{UserID: sess.UID}, f)
}

func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, sess *models.Session, f models.BookingListFilter) (*models.BookingPage, error) {
	return s.listPage(ctx, models.BookingQuery{ProviderID: sess.UID}, f)
}

// listPage fetches one row past the page to learn whether more exist.
func (s *DefaultBookingService) listPage(ctx context.Context, q models.BookingQuery, f models.BookingListFilter) (*models.BookingPage, error) {
	st, err := parseStatusFilter(f.Status)
	if err != nil {
		return nil, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultListPageSize
	}
	if f.Limit > MaxListPageSize {
		f.Limit = MaxListPageSize
	}
	q.Status = st
	q.Skip = int64((f.Page - 1) * f.Limit)
	q.Limit = int64(f.Limit + 1)

	list, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	page := &models.BookingPage{Page: f.Page, Limit: f.Limit}
	if len(list) > f.Limit {
		list = list[:f.Limit]
		page.HasMore = true
	}
	if list == nil {
		list = []models.Booking{}
	}
	page.Bookings = list
	page.Count = len(list)
	return page, nil
}

func (s *DefaultBookingService) PendingCount(ctx context.Context, sess *models.Session) (int64, error) {
	return s.Repo.CountByProviderStatus(ctx, sess.UID, models.StatusPending)
}
