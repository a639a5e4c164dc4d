package event

import (
	"errors"
	"strings"

	"backend-getyourextreme/internal/experience"
)

type EventScheduleItem struct {
	ID            string              `json:"id"`
	Category      experience.Category `json:"category"`
	Date          string              `json:"date"`
	Time          string              `json:"time"`
	DurationHours float64             `json:"durationHours"`
	Capacity      int                 `json:"capacity"`
	Booked        int                 `json:"booked"`
	Price         float64             `json:"price"`
	Title         string              `json:"title"`
	Summary       string              `json:"summary"`
	Details       string              `json:"details"`
	ServiceStops  []string            `json:"serviceStops"`
}

// SeatsLeft is capacity minus booked, never negative.
func (e EventScheduleItem) SeatsLeft() int {
	if left := e.Capacity - e.Booked; left > 0 {
		return left
	}
	return 0
}

type CreateInput struct {
	Category      experience.Category `json:"category" validate:"required,oneof=SUP BIKE SKI"`
	Date          string              `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string              `json:"time" validate:"required,datetime=15:04"`
	DurationHours float64             `json:"durationHours" validate:"gt=0"`
	Capacity      int                 `json:"capacity" validate:"gte=1"`
	Price         float64             `json:"price" validate:"gte=0"`
	Title         string              `json:"title" validate:"required"`
	Summary       string              `json:"summary"`
	Details       string              `json:"details"`
	ServiceStops  []string            `json:"serviceStops" validate:"min=1"`
}

var (
	ErrNotFound            = errors.New("event not found")
	ErrInsufficientSeats   = errors.New("insufficient seats available")
	ErrInvalidSeats        = errors.New("seat count must be at least 1")
	ErrRemoteNotConfigured = errors.New("REMOTE_API_URL is missing")
	ErrUnknownMode         = errors.New("unknown events api mode")
)

// ParseServiceStops accepts the shapes the backend may return for the
// service_stops column: a text array or a pipe-delimited string.
func ParseServiceStops(v any) []string {
	switch stops := v.(type) {
	case []string:
		return cleanStops(stops)
	case []any:
		out := make([]string, 0, len(stops))
		for _, s := range stops {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return cleanStops(out)
	case string:
		return cleanStops(strings.Split(stops, "|"))
	default:
		return []string{}
	}
}

func cleanStops(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fromInput(id string, input CreateInput) EventScheduleItem {
	return EventScheduleItem{
		ID:            id,
		Category:      input.Category,
		Date:          input.Date,
		Time:          input.Time,
		DurationHours: input.DurationHours,
		Capacity:      input.Capacity,
		Price:         input.Price,
		Title:         input.Title,
		Summary:       input.Summary,
		Details:       input.Details,
		ServiceStops:  cleanStops(input.ServiceStops),
	}
}
