package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// bookingTransitions lists the legal edges out of each state. Terminal states have none.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: nil,
	StatusCompleted: nil,
}

func IsValidBookingStatus(s string) bool {
	_, ok := bookingTransitions[BookingStatus(s)]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is the central transactional entity. Price, ProviderID and ServiceTitle are
// snapshotted from the Service at creation; the User fields from the caller's record.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID     primitive.ObjectID `bson:"serviceId" json:"serviceId"`
	ServiceTitle  string             `bson:"serviceTitle" json:"serviceTitle"`
	UserID        string             `bson:"userId" json:"userId"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	UserName      string             `bson:"userName" json:"userName"`
	ProviderID    string             `bson:"providerId" json:"providerId"`
	Date          string             `bson:"date" json:"date"`
	Time          string             `bson:"time" json:"time"`
	Address       string             `bson:"address" json:"address"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        BookingStatus      `bson:"status" json:"status"`
	Price         float64            `bson:"price" json:"price"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsParticipant reports whether uid is the booking's customer or provider.
func (b *Booking) IsParticipant(uid string) bool {
	return uid != "" && (b.UserID == uid || b.ProviderID == uid)
}

// Counterparty returns the other participant for uid.
func (b *Booking) Counterparty(uid string) string {
	if b.UserID == uid {
		return b.ProviderID
	}
	return b.UserID
}

// NotifyTargets lists who should hear about a change made by actorUID: the
// other participant, or both participants when the actor is an outsider such as an admin.
func (b *Booking) NotifyTargets(actorUID string) []string {
	if b.IsParticipant(actorUID) {
		return []string{b.Counterparty(actorUID)}
	}
	return []string{b.UserID, b.ProviderID}
}

// ScheduledAt combines Date and Time in loc. Time is "HH:MM".
func (b *Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, loc)
}

// CreateBookingRequest is the client payload. Price and provider fields are
// deliberately absent: they are never taken from the client.
type CreateBookingRequest struct {
	ServiceID     string `json:"serviceId" binding:"required,objectid"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string `json:"time" binding:"required,datetime=15:04"`
	Address       string `json:"address" binding:"required,min=1,max=300"`
	Notes         string `json:"notes" binding:"omitempty,max=1000"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=cash card"`
}

// UpdateStatusRequest validates membership in the status enum in the service layer so
// that an unknown value maps to INVALID_STATUS rather than a generic binding error.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingQuery filters booking listings.
type BookingQuery struct {
	UserID     string
	ProviderID string
	Status     BookingStatus
	Skip       int64
	Limit      int64
}

// BookingListFilter is the caller-facing form of a listing request.
type BookingListFilter struct {
	Status string
	Page   int
	Limit  int
}

// BookingPage is one page of a booking listing, newest first. HasMore is set
// when older bookings exist beyond this page.
type BookingPage struct {
	Bookings []Booking `json:"bookings"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	HasMore  bool      `json:"hasMore"`
}
