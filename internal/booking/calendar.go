// Package booking implements the event calendar: month navigation, day
// selection and the seat-checked booking flow with its ticket.
package booking

import (
	"errors"
	"time"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/experience"
)

var ErrInvalidMonth = errors.New("month must be YYYY-MM")

var WeekDays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthView is the displayed year-month. It moves independently of the
// selected date.
type MonthView struct {
	Year  int
	Month time.Month
}

func MonthOf(date string) (MonthView, error) {
	t, err := time.Parse(experience.DateLayout, date)
	if err != nil {
		return MonthView{}, experience.ErrInvalidDate
	}
	return MonthView{Year: t.Year(), Month: t.Month()}, nil
}

// ParseMonth accepts YYYY-MM.
func ParseMonth(raw string) (MonthView, error) {
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return MonthView{}, ErrInvalidMonth
	}
	return MonthView{Year: t.Year(), Month: t.Month()}, nil
}

func (m MonthView) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m MonthView) Prev() MonthView {
	p := m.first().AddDate(0, -1, 0)
	return MonthView{Year: p.Year(), Month: p.Month()}
}

func (m MonthView) Next() MonthView {
	n := m.first().AddDate(0, 1, 0)
	return MonthView{Year: n.Year(), Month: n.Month()}
}

// Label is the heading shown above the grid, e.g. "March 2026".
func (m MonthView) Label() string {
	return m.first().Format("January 2006")
}

func (m MonthView) String() string {
	return m.first().Format("2006-01")
}

func (m MonthView) DaysInMonth() int {
	return m.first().AddDate(0, 1, -1).Day()
}

// Cell is one square of the month grid. Leading blanks have Day 0.
type Cell struct {
	Day       int    `json:"day"`
	Date      string `json:"date,omitempty"`
	HasEvents bool   `json:"hasEvents"`
	Today     bool   `json:"today"`
	Selected  bool   `json:"selected"`
}

func (m MonthView) Cells(withEvents map[string]bool, today, selected string) []Cell {
	lead := int(m.first().Weekday())
	days := m.DaysInMonth()
	cells := make([]Cell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC).Format(experience.DateLayout)
		cells = append(cells, Cell{
			Day:       d,
			Date:      date,
			HasEvents: withEvents[date],
			Today:     date == today,
			Selected:  date == selected,
		})
	}
	return cells
}

// DayLabel renders a YYYY-MM-DD date as "Monday, March 2".
func DayLabel(date string) string {
	t, err := time.Parse(experience.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// DatesWithEvents is the set of dates that get a dot marker for category.
func DatesWithEvents(items []event.EventScheduleItem, category experience.Category) map[string]bool {
	out := map[string]bool{}
	for _, item := range items {
		if item.Category == category {
			out[item.Date] = true
		}
	}
	return out
}

func EventsOn(items []event.EventScheduleItem, date string, category experience.Category) []event.EventScheduleItem {
	out := []event.EventScheduleItem{}
	for _, item := range items {
		if item.Date == date && item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// SelectEvent returns the event with id from the day list, or the first
// event of the day when id is empty or unknown.
func SelectEvent(day []event.EventScheduleItem, id string) (event.EventScheduleItem, bool) {
	for _, item := range day {
		if item.ID == id {
			return item, true
		}
	}
	if len(day) == 0 {
		return event.EventScheduleItem{}, false
	}
	return day[0], true
}

// ResolvePickup keeps current when it is one of the event's stops and
// falls back to the first stop otherwise.
func ResolvePickup(ev event.EventScheduleItem, current string) string {
	for _, stop := range ev.ServiceStops {
		if stop == current {
			return current
		}
	}
	if len(ev.ServiceStops) == 0 {
		return ""
	}
	return ev.ServiceStops[0]
}
