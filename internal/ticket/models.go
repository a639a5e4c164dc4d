package ticket

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Ticket is the downloadable confirmation generated after an event booking.
type Ticket struct {
	// ID is the random key the ticket is stored and served under. The
	// reference is for display only.
	ID            string   `json:"id"`
	Reference     string   `json:"reference"`
	Category      string   `json:"category"`
	EventTitle    string   `json:"eventTitle"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	DurationHours float64  `json:"durationHours"`
	PickupStop    string   `json:"pickupStop"`
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	HotelName     string   `json:"hotelName"`
	Phone         string   `json:"phone"`
	Participants  int      `json:"participants"`
	Amount        float64  `json:"amount"`
	ServiceStops  []string `json:"serviceStops"`
}

var (
	ErrNotFound = errors.New("ticket not found")
	ErrExists   = errors.New("ticket already exists")
)

// NewReference returns GYE- followed by the last eight digits of the unix
// millisecond clock.
func NewReference(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "GYE-" + ms
}

// QRText is the pipe-delimited summary encoded into the ticket QR code.
func (t Ticket) QRText() string {
	hotel := t.HotelName
	if strings.TrimSpace(hotel) == "" {
		hotel = "-"
	}
	return strings.Join([]string{
		"Ref:" + t.Reference,
		"Category:" + t.Category,
		"Event:" + t.EventTitle,
		"Date:" + t.Date + " " + t.Time,
		"Pickup:" + t.PickupStop,
		"Name:" + t.FullName,
		"Email:" + t.Email,
		"Hotel:" + hotel,
		"Phone:" + t.Phone,
		"Seats:" + strconv.Itoa(t.Participants),
		"Amount:EUR " + FormatAmount(t.Amount),
	}, "|")
}

// FileName is the download name of the ticket image, e.g.
// sup-2026-03-02-jane-roe-ticket.png.
func (t Ticket) FileName() string {
	return fmt.Sprintf("%s-%s-%s-ticket.png", strings.ToLower(t.Category), t.Date, slug.Make(t.FullName))
}

// FormatAmount prints whole amounts without decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
