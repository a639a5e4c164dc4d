package reservation

import "errors"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Source string

const (
	SourceEvent   Source = "event"
	SourceSpecial Source = "special"
)

type Reservation struct {
	ID             int64    `json:"id"`
	CustomerName   string   `json:"customerName"`
	CustomerPhone  string   `json:"customerPhone"`
	Activity       string   `json:"activity"`
	Route          string   `json:"route"`
	Date           string   `json:"date"`
	Status         Status   `json:"status"`
	Timestamp      string   `json:"timestamp"`
	Source         Source   `json:"source,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	EventID        string   `json:"eventId,omitempty"`
	ReferredByCode string   `json:"referredByCode,omitempty"`
}

type CreateInput struct {
	CustomerName   string   `json:"customerName" validate:"required"`
	CustomerPhone  string   `json:"customerPhone" validate:"required"`
	Activity       string   `json:"activity" validate:"required"`
	Route          string   `json:"route"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Source         Source   `json:"source,omitempty" validate:"omitempty,oneof=event special"`
	Amount         *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	EventID        string   `json:"eventId,omitempty"`
	ReferredByCode string   `json:"referredByCode,omitempty"`
}

var (
	ErrNotFound            = errors.New("reservation not found")
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrRemoteNotConfigured = errors.New("REMOTE_API_URL is missing")
	ErrUnknownMode         = errors.New("unknown reservations api mode")
)
