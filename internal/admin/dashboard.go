// Package admin serves the dashboard views: searchable reservations,
// aggregate counters and the registered user list.
package admin

import (
	"strings"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/reservation"
)

type Stats struct {
	TotalReservations   int     `json:"totalReservations"`
	PendingReservations int     `json:"pendingReservations"`
	Revenue             float64 `json:"revenue"`
	Events              int     `json:"events"`
	SeatsBooked         int     `json:"seatsBooked"`
	SeatsCapacity       int     `json:"seatsCapacity"`
}

// Search keeps reservations whose name, phone, activity, route, status or
// referral code contains q, ignoring case. An empty q keeps everything.
func Search(items []reservation.Reservation, q string) []reservation.Reservation {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]reservation.Reservation, 0, len(items))
	for _, r := range items {
		if q == "" || matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r reservation.Reservation, q string) bool {
	for _, field := range []string{
		r.CustomerName, r.CustomerPhone, r.Activity, r.Route, string(r.Status), r.ReferredByCode,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Summarize counts reservations and sums their amounts. Reservations
// without an amount add nothing to revenue.
func Summarize(items []reservation.Reservation, events []event.EventScheduleItem) Stats {
	var s Stats
	s.TotalReservations = len(items)
	for _, r := range items {
		if r.Status == reservation.StatusPending {
			s.PendingReservations++
		}
		if r.Amount != nil {
			s.Revenue += *r.Amount
		}
	}
	s.Events = len(events)
	for _, e := range events {
		s.SeatsBooked += e.Booked
		s.SeatsCapacity += e.Capacity
	}
	return s
}
