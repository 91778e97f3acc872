package scheduling

import (
	"time"

	"github.com/barzda/barbershop-api/internal/domain"
)

// ServiceDuration is the fixed length of every appointment.
const ServiceDuration = 45 * time.Minute

// Hours is an open/close window in local wall-clock hours, half-open [Open, Close).
type Hours struct {
	Open  int
	Close int
}

// Calendar answers business-hours questions for a single shop location.
// All weekday and wall-clock arithmetic happens in the shop's timezone,
// never the caller's.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

func (c *Calendar) Location() *time.Location { return c.loc }

// BusinessHoursFor returns the open/close window for the day containing t,
// or ok=false when the shop is closed that day. Only the weekday in the
// shop timezone matters.
func (c *Calendar) BusinessHoursFor(t time.Time) (Hours, bool) {
	switch t.In(c.loc).Weekday() {
	case time.Tuesday, time.Thursday:
		return Hours{}, false
	case time.Saturday, time.Sunday:
		return Hours{Open: 13, Close: 16}, true
	default:
		return Hours{Open: 12, Close: 16}, true
	}
}

// Slots returns every candidate start instant for the calendar day
// containing date, ascending, in UTC. Slots advance by ServiceDuration
// from opening; a slot that would end after closing is not emitted.
func (c *Calendar) Slots(date time.Time) []time.Time {
	hours, open := c.BusinessHoursFor(date)
	if !open {
		return nil
	}

	y, m, d := date.In(c.loc).Date()
	cur := time.Date(y, m, d, hours.Open, 0, 0, 0, c.loc)
	closing := time.Date(y, m, d, hours.Close, 0, 0, 0, c.loc)

	var slots []time.Time
	for !cur.Add(ServiceDuration).After(closing) {
		slots = append(slots, cur.UTC())
		cur = cur.Add(ServiceDuration)
	}
	return slots
}

// DayBounds returns the [00:00, next day 00:00) instants for the calendar
// day containing date in the shop timezone. Built from civil dates so DST
// days keep their real 23- or 25-hour length.
func (c *Calendar) DayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.In(c.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	to := time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)
	return from.UTC(), to.UTC()
}

// ValidateStart checks a proposed start instant against the weekly policy:
// closed day, before opening, or too close to closing for a full service.
func (c *Calendar) ValidateStart(start time.Time) error {
	hours, open := c.BusinessHoursFor(start)
	if !open {
		return domain.ErrClosedDay
	}

	local := start.In(c.loc)
	minutes := local.Hour()*60 + local.Minute()
	if minutes < hours.Open*60 {
		return domain.ErrBeforeOpening
	}
	if minutes+int(ServiceDuration.Minutes()) > hours.Close*60 {
		return domain.ErrAfterClosing
	}
	return nil
}
