package models

import (
	"testing"
	"time"
)

func TestBookingStatus_Transitions(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
	legal := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusCompleted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != legal[[2]BookingStatus{from, to}] {
				t.Errorf("%s -> %s = %v", from, to, got)
			}
		}
	}
	if !StatusCancelled.IsTerminal() || !StatusCompleted.IsTerminal() || StatusPending.IsTerminal() {
		t.Fatal("terminal states wrong")
	}
	if IsValidBookingStatus("archived") || !IsValidBookingStatus("pending") {
		t.Fatal("status validation wrong")
	}
}

func TestSortedUniqueCategories(t *testing.T) {
	got := SortedUniqueCategories([]string{"Plumbing", "Cleaning", "", "Plumbing", "Electrical", "Cleaning"})
	want := []string{"Cleaning", "Electrical", "Plumbing"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBooking_Participants(t *testing.T) {
	b := &Booking{UserID: "cust", ProviderID: "prov", Date: "2025-01-10", Time: "10:00"}
	if !b.IsParticipant("cust") || !b.IsParticipant("prov") || b.IsParticipant("") || b.IsParticipant("other") {
		t.Fatal("participant check wrong")
	}
	if got := b.NotifyTargets("admin"); len(got) != 2 || got[0] != "cust" || got[1] != "prov" {
		t.Fatalf("outsider change should notify both parties, got %v", got)
	}
	if got := b.NotifyTargets("prov"); len(got) != 1 || got[0] != "cust" {
		t.Fatalf("participant change should notify the other side, got %v", got)
	}
	if b.Counterparty("cust") != "prov" || b.Counterparty("prov") != "cust" {
		t.Fatal("counterparty wrong")
	}
	at, err := b.ScheduledAt(time.UTC)
	if err != nil || !at.Equal(time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("scheduled at = %v, %v", at, err)
	}
}

func TestSession_Roles(t *testing.T) {
	var nilSess *Session
	if nilSess.HasRole(RoleCustomer) {
		t.Fatal("nil session has no role")
	}
	s := &Session{User: &User{Role: RoleAdmin}}
	if !s.IsAdmin() || s.HasRole(RoleCustomer) {
		t.Fatal("role check wrong")
	}
}
