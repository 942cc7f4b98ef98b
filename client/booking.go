// Package client is a Go SDK for the booking endpoints: typed calls, a local
// booking list patched optimistically after status changes, and the provider
// pending-bookings badge.
package client

import (
	"encoding/json"
	"time"

	"hausly/models"
)

// Booking is the client-side view of a booking. Responses may key it as "id"
// or "_id"; both decode into ID and nothing downstream sees the difference.
type Booking struct {
	ID            string               `json:"id"`
	ServiceID     string               `json:"serviceId"`
	ServiceTitle  string               `json:"serviceTitle"`
	UserID        string               `json:"userId"`
	UserName      string               `json:"userName"`
	ProviderID    string               `json:"providerId"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	Address       string               `json:"address"`
	Notes         string               `json:"notes,omitempty"`
	Status        models.BookingStatus `json:"status"`
	Price         float64              `json:"price"`
	PaymentStatus string               `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var aux struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Booking(aux.plain)
	if b.ID == "" {
		b.ID = aux.LegacyID
	}
	return nil
}

type CreateBookingRequest struct {
	ServiceID     string `json:"serviceId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Address       string `json:"address"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

type CreateBookingResponse struct {
	Message      string  `json:"message"`
	Booking      Booking `json:"booking"`
	ServiceTitle string  `json:"serviceTitle"`
	ProviderName string  `json:"providerName"`
}
