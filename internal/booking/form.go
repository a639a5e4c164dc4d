package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/experience"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s()-]{7,20}$`)
)

const (
	msgIncomplete   = "Please complete pickup, participant count, name, email and phone."
	msgSeatsMin     = "Participant count must be at least 1."
	msgSeatsLeft    = "Only %d seats available for this event."
	msgInvalidEmail = "Please enter a valid email address."
	msgInvalidPhone = "Please enter a valid phone number."
	msgBookingDone  = "Reservation completed. QR ticket is ready to download."
	msgBookingFail  = "Reservation could not be completed. Please try again."

	msgSpecialIncomplete = "Please fill in date, name and phone."
	msgSpecialPastDate   = "Please select today or a future date."
	msgSpecialSent       = "Special reservation request sent."
	msgSpecialFail       = "Request could not be sent. Please try again."
)

// ValidationError is a user-facing rejection of a booking form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func ValidEmail(v string) bool { return emailPattern.MatchString(strings.TrimSpace(v)) }

func ValidPhone(v string) bool { return phonePattern.MatchString(strings.TrimSpace(v)) }

// Form is the event booking form.
type Form struct {
	EventID      string `json:"eventId"`
	PickupStop   string `json:"pickupStop"`
	Participants int    `json:"participants"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	HotelName    string `json:"hotelName"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

// Normalize trims the text fields and upper-cases the referral code.
func (f Form) Normalize() Form {
	f.PickupStop = strings.TrimSpace(f.PickupStop)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.HotelName = strings.TrimSpace(f.HotelName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.ReferralCode = strings.ToUpper(strings.TrimSpace(f.ReferralCode))
	return f
}

// Validate runs the checks in order and stops at the first failure.
func Validate(f Form, ev event.EventScheduleItem) error {
	f = f.Normalize()
	if f.PickupStop == "" || f.FullName == "" || f.Email == "" || f.Phone == "" || f.Participants == 0 {
		return invalid(msgIncomplete)
	}
	if f.Participants < 1 {
		return invalid(msgSeatsMin)
	}
	if left := ev.Capacity - ev.Booked; f.Participants > left {
		return &SeatsError{Left: left}
	}
	if !ValidEmail(f.Email) {
		return invalid(msgInvalidEmail)
	}
	if !ValidPhone(f.Phone) {
		return invalid(msgInvalidPhone)
	}
	return nil
}

// ComposeRoute describes the booking for the reservation's route field.
func ComposeRoute(f Form, ev event.EventScheduleItem) string {
	var b strings.Builder
	b.WriteString("Pickup " + strings.TrimSpace(f.PickupStop))
	if hotel := strings.TrimSpace(f.HotelName); hotel != "" {
		b.WriteString(" | Hotel " + hotel)
	}
	fmt.Fprintf(&b, " | Seats %d | %s", f.Participants, strings.Join(ev.ServiceStops, " -> "))
	return b.String()
}

// SpecialRequest is a free-form booking request outside the schedule.
type SpecialRequest struct {
	Category      string `json:"category"`
	PreferredDate string `json:"preferredDate"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Participants  int    `json:"participants"`
	Note          string `json:"note"`
}

func ValidateSpecial(r SpecialRequest, today string) error {
	if r.PreferredDate == "" || strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Phone) == "" {
		return invalid(msgSpecialIncomplete)
	}
	if _, err := time.Parse(experience.DateLayout, r.PreferredDate); err != nil {
		return &ValidationError{Message: experience.ErrInvalidDate.Error()}
	}
	// Both sides are YYYY-MM-DD so lexical order is date order.
	if r.PreferredDate < today {
		return invalid(msgSpecialPastDate)
	}
	if !ValidPhone(r.Phone) {
		return invalid(msgInvalidPhone)
	}
	return nil
}

func specialSummary(label string, participants int, note string) string {
	parts := []string{
		"Special Request",
		"Category: " + label,
		fmt.Sprintf("Participants: %d", participants),
	}
	if note = strings.TrimSpace(note); note != "" {
		parts = append(parts, "Note: "+note)
	}
	return strings.Join(parts, " | ")
}
