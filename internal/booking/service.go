package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/experience"
	"backend-getyourextreme/internal/reservation"
	"backend-getyourextreme/internal/ticket"

	"go.uber.org/zap"
)

var (
	ErrBookingFailed     = errors.New(msgBookingFail)
	ErrSpecialFailed     = errors.New(msgSpecialFail)
	ErrEventsUnavailable = errors.New("events could not be loaded")
	ErrNoEventSelected   = errors.New("no event scheduled for the selected day")
)

// SeatsError reports that fewer seats remain than were requested.
type SeatsError struct {
	Left int
}

func (e *SeatsError) Error() string { return fmt.Sprintf(msgSeatsLeft, e.Left) }

func (e *SeatsError) Unwrap() error { return event.ErrInsufficientSeats }

type Service struct {
	events       event.Store
	reservations reservation.Store
	tickets      *ticket.Store
	log          *zap.Logger
	now          func() time.Time
}

func NewService(events event.Store, reservations reservation.Store, tickets *ticket.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{events: events, reservations: reservations, tickets: tickets, log: log, now: time.Now}
}

func (s *Service) today() string {
	return s.now().Format(experience.DateLayout)
}

type CalendarQuery struct {
	Category experience.Category
	Month    string
	Date     string
	EventID  string
	Pickup   string
}

type CalendarView struct {
	Category  experience.Category       `json:"category"`
	Month     string                    `json:"month"`
	Label     string                    `json:"label"`
	Prev      string                    `json:"prev"`
	Next      string                    `json:"next"`
	WeekDays  []string                  `json:"weekDays"`
	Cells     []Cell                    `json:"cells"`
	Date      string                    `json:"date"`
	DayLabel  string                    `json:"dayLabel"`
	Events    []event.EventScheduleItem `json:"events"`
	Selected  *event.EventScheduleItem  `json:"selected"`
	Pickup    string                    `json:"pickup,omitempty"`
	SeatsLeft int                       `json:"seatsLeft"`
}

// Calendar builds the month grid and the selected day for a category.
// The displayed month defaults to the month of the selected date.
func (s *Service) Calendar(ctx context.Context, q CalendarQuery) (CalendarView, error) {
	if q.Category == "" {
		q.Category = experience.CategorySUP
	}
	today := s.today()
	if q.Date == "" {
		q.Date = today
	}
	var (
		month MonthView
		err   error
	)
	if q.Month != "" {
		month, err = ParseMonth(q.Month)
	} else {
		month, err = MonthOf(q.Date)
	}
	if err != nil {
		return CalendarView{}, &ValidationError{Message: err.Error()}
	}

	items, err := s.events.List(ctx)
	if err != nil {
		s.log.Warn("events load failed", zap.Error(err))
		return CalendarView{}, ErrEventsUnavailable
	}

	day := EventsOn(items, q.Date, q.Category)
	view := CalendarView{
		Category: q.Category,
		Month:    month.String(),
		Label:    month.Label(),
		Prev:     month.Prev().String(),
		Next:     month.Next().String(),
		WeekDays: WeekDays,
		Cells:    month.Cells(DatesWithEvents(items, q.Category), today, q.Date),
		Date:     q.Date,
		DayLabel: DayLabel(q.Date),
		Events:   day,
	}
	if selected, ok := SelectEvent(day, q.EventID); ok {
		view.Selected = &selected
		view.Pickup = ResolvePickup(selected, q.Pickup)
		view.SeatsLeft = selected.SeatsLeft()
	}
	return view, nil
}

type Confirmation struct {
	Reservation reservation.Reservation `json:"reservation"`
	Ticket      ticket.Ticket           `json:"ticket"`
	Message     string                  `json:"message"`
}

// Book validates the form against the event, reserves the seats and
// records the reservation. Seats are released again when the reservation
// cannot be stored.
func (s *Service) Book(ctx context.Context, form Form) (Confirmation, error) {
	if strings.TrimSpace(form.EventID) == "" {
		return Confirmation{}, ErrNoEventSelected
	}
	ev, err := s.events.Get(ctx, form.EventID)
	if err != nil {
		return Confirmation{}, err
	}
	form = form.Normalize()
	if err := Validate(form, ev); err != nil {
		return Confirmation{}, err
	}

	if _, err := s.events.Reserve(ctx, ev.ID, form.Participants); err != nil {
		if errors.Is(err, event.ErrInsufficientSeats) {
			left := 0
			if fresh, gerr := s.events.Get(ctx, ev.ID); gerr == nil {
				left = fresh.SeatsLeft()
			}
			return Confirmation{}, &SeatsError{Left: left}
		}
		s.log.Error("seat reservation failed", zap.String("event_id", ev.ID), zap.Error(err))
		return Confirmation{}, ErrBookingFailed
	}

	amount := ev.Price * float64(form.Participants)
	created, err := s.reservations.Create(ctx, reservation.CreateInput{
		CustomerName:   form.FullName,
		CustomerPhone:  form.Phone,
		Activity:       fmt.Sprintf("%s Event: %s", experience.ThemeFor(ev.Category).Label, ev.Title),
		Route:          ComposeRoute(form, ev),
		Date:           ev.Date,
		Source:         reservation.SourceEvent,
		Amount:         &amount,
		EventID:        ev.ID,
		ReferredByCode: form.ReferralCode,
	})
	if err != nil {
		s.log.Error("reservation create failed", zap.String("event_id", ev.ID), zap.Error(err))
		if rerr := s.events.Release(ctx, ev.ID, form.Participants); rerr != nil {
			s.log.Error("seat release failed", zap.String("event_id", ev.ID), zap.Int("seats", form.Participants), zap.Error(rerr))
		}
		return Confirmation{}, ErrBookingFailed
	}

	tk := ticket.Ticket{
		Reference:     ticket.NewReference(s.now()),
		Category:      string(ev.Category),
		EventTitle:    ev.Title,
		Date:          ev.Date,
		Time:          ev.Time,
		DurationHours: ev.DurationHours,
		PickupStop:    form.PickupStop,
		FullName:      form.FullName,
		Email:         form.Email,
		HotelName:     form.HotelName,
		Phone:         form.Phone,
		Participants:  form.Participants,
		Amount:        amount,
		ServiceStops:  ev.ServiceStops,
	}
	if stored, err := s.tickets.Create(ctx, tk); err != nil {
		s.log.Warn("ticket save failed", zap.String("reference", tk.Reference), zap.Error(err))
	} else {
		tk = stored
	}
	s.log.Info("event booked",
		zap.String("event_id", ev.ID),
		zap.Int64("reservation_id", created.ID),
		zap.String("reference", tk.Reference),
		zap.Int("seats", form.Participants))

	return Confirmation{Reservation: created, Ticket: tk, Message: msgBookingDone}, nil
}

type SpecialConfirmation struct {
	Reservation reservation.Reservation `json:"reservation"`
	Message     string                  `json:"message"`
}

// SpecialRequest records a request for a date or group outside the
// published schedule. No seats are reserved.
func (s *Service) SpecialRequest(ctx context.Context, req SpecialRequest) (SpecialConfirmation, error) {
	if err := ValidateSpecial(req, s.today()); err != nil {
		return SpecialConfirmation{}, err
	}
	label := specialLabel(req.Category)
	participants := req.Participants
	if participants < 1 {
		participants = 1
	}
	created, err := s.reservations.Create(ctx, reservation.CreateInput{
		CustomerName:  strings.TrimSpace(req.Name),
		CustomerPhone: strings.TrimSpace(req.Phone),
		Activity:      fmt.Sprintf("Special Request (%s)", label),
		Route:         specialSummary(label, participants, req.Note),
		Date:          req.PreferredDate,
		Source:        reservation.SourceSpecial,
	})
	if err != nil {
		s.log.Error("special request failed", zap.Error(err))
		return SpecialConfirmation{}, ErrSpecialFailed
	}
	return SpecialConfirmation{Reservation: created, Message: msgSpecialSent}, nil
}

// specialLabel maps a category key to its display label. Labels pass
// through unchanged.
func specialLabel(raw string) string {
	if c, err := experience.ParseCategory(raw); err == nil {
		return experience.ThemeFor(c).Label
	}
	if raw = strings.TrimSpace(raw); raw != "" {
		return raw
	}
	return experience.ThemeFor(experience.CategorySUP).Label
}
