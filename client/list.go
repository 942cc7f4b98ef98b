package client

import (
	"context"
	"sync"

	"hausly/models"
)

// BookingList is a local copy of a booking listing that status changes patch
// in place instead of refetching.
type BookingList struct {
	mu    sync.RWMutex
	items []Booking
}

func NewBookingList(items []Booking) *BookingList {
	l := &BookingList{}
	l.Set(items)
	return l
}

// Set replaces the whole list, e.g. after an explicit refresh.
func (l *BookingList) Set(items []Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]Booking(nil), items...)
}

// Items returns a snapshot copy.
func (l *BookingList) Items() []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Booking(nil), l.items...)
}

func (l *BookingList) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *BookingList) Get(id string) (Booking, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return Booking{}, false
}

// ApplyStatus sets the status of booking id and returns the previous one.
func (l *BookingList) ApplyStatus(id string, status models.BookingStatus) (models.BookingStatus, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return "", false
	}
	prev := l.items[i].Status
	l.items[i].Status = status
	return prev, true
}

// Replace swaps in the server's copy of b, keyed by b.ID.
func (l *BookingList) Replace(b Booking) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(b.ID)
	if i < 0 {
		return false
	}
	l.items[i] = b
	return true
}

func (l *BookingList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// CountStatus counts bookings currently in status.
func (l *BookingList) CountStatus(status models.BookingStatus) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, b := range l.items {
		if b.Status == status {
			n++
		}
	}
	return n
}

// StatusUpdater is the part of API the list syncs against.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
}

// ChangeStatus patches the list optimistically, then reconciles with the
// server's answer. On failure the previous status is restored.
func (l *BookingList) ChangeStatus(ctx context.Context, api StatusUpdater, id string, status models.BookingStatus) error {
	return l.sync(id, status, func() (*Booking, error) {
		return api.UpdateStatus(ctx, id, status)
	})
}

func (l *BookingList) Cancel(ctx context.Context, api StatusUpdater, id string) error {
	return l.sync(id, models.StatusCancelled, func() (*Booking, error) {
		return api.Cancel(ctx, id)
	})
}

func (l *BookingList) sync(id string, status models.BookingStatus, call func() (*Booking, error)) error {
	prev, known := l.ApplyStatus(id, status)
	updated, err := call()
	if err != nil {
		if known {
			l.ApplyStatus(id, prev)
		}
		return err
	}
	if updated != nil && updated.ID != "" {
		l.Replace(*updated)
	}
	return nil
}
