// Package schedule holds the pure slot math for the booking funnel: the
// fixed daily template, the same-day cutoff rule, and busy-interval
// reconciliation. Everything here is deterministic given its inputs; I/O
// and caching live in the application layer.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// BufferHours is the minimum lead time between "now" and a bookable slot on
// the current day.
const BufferHours = 2

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// template is the fixed ordered list of bookable hour labels for any day.
var template = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

var (
	locOnce sync.Once
	loc     *time.Location
)

// BusinessLocation returns the business time zone (America/Sao_Paulo,
// fixed UTC-3). Falls back to a fixed zone when tzdata is unavailable.
func BusinessLocation() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("America/Sao_Paulo")
		if err != nil {
			l = time.FixedZone("-03", -3*60*60)
		}
		loc = l
	})
	return loc
}

// TemplateSlots returns a copy of the daily slot template.
func TemplateSlots() []string {
	out := make([]string, len(template))
	copy(out, template)
	return out
}

// IsTemplateSlot reports whether label is one of the fixed template slots.
func IsTemplateSlot(label string) bool {
	for _, s := range template {
		if s == label {
			return true
		}
	}
	return false
}

// SlotHour returns the hour component of an "HH:MM" label. Minutes are
// parsed and discarded; the template only books on the hour.
func SlotHour(label string) (int, error) {
	parts := strings.SplitN(label, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed slot label %q", label)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("malformed slot label %q", label)
	}
	if _, err := strconv.Atoi(parts[1]); err != nil {
		return 0, fmt.Errorf("malformed slot label %q", label)
	}
	return hour, nil
}

// ParseDate parses a YYYY-MM-DD string as midnight in the business time zone.
func ParseDate(s string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, s, BusinessLocation())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return day, nil
}

// FormatDate renders a day as YYYY-MM-DD in the business time zone.
func FormatDate(t time.Time) string {
	return t.In(BusinessLocation()).Format(dateLayout)
}

// DayWindow returns the [00:00:00, 23:59:59] bounds of day in the business
// time zone, matching the window requested from the external calendar.
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := day.In(BusinessLocation())
	end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

// FilterByCutoff drops slots that are too soon to book. The cutoff applies
// only when day is the same calendar day as now in the business time zone:
// slots whose hour is not strictly greater than hour(now)+BufferHours are
// removed. Future days pass through untouched. An empty result is valid.
func FilterByCutoff(day time.Time, slots []string, now time.Time) []string {
	localNow := now.In(BusinessLocation())
	localDay := day.In(BusinessLocation())

	sameDay := localNow.Year() == localDay.Year() &&
		localNow.Month() == localDay.Month() &&
		localNow.Day() == localDay.Day()

	out := make([]string, 0, len(slots))
	if !sameDay {
		return append(out, slots...)
	}

	cutoffHour := localNow.Hour() + BufferHours
	for _, label := range slots {
		hour, err := SlotHour(label)
		if err != nil {
			continue
		}
		if hour > cutoffHour {
			out = append(out, label)
		}
	}
	return out
}

// RemoveBusy drops every slot whose hour is covered by a busy interval.
// An interval [start, end) blocks each hour h with start.Hour() <= h and
// h < end.Hour(), plus end's own hour when the interval spills into it.
// A 30-minute meeting therefore blocks the whole hour slot it starts in.
func RemoveBusy(slots []string, busy []entities.BusyInterval) []string {
	blocked := make(map[int]bool)
	for _, interval := range busy {
		if !interval.End.After(interval.Start) {
			continue
		}
		start := interval.Start.In(BusinessLocation())
		end := interval.End.In(BusinessLocation())

		endHour := end.Hour()
		if end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0 {
			endHour++
		}
		// Intervals clamped to the day window never cross midnight, but a
		// provider returning a wider range must still block through 23:00.
		if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
			endHour = 24
		}

		for h := start.Hour(); h < endHour; h++ {
			blocked[h] = true
		}
	}

	out := make([]string, 0, len(slots))
	for _, label := range slots {
		hour, err := SlotHour(label)
		if err != nil {
			continue
		}
		if !blocked[hour] {
			out = append(out, label)
		}
	}
	return out
}

// SlotTimes converts a day plus slot label into concrete start/end instants
// in the business time zone.
func SlotTimes(day time.Time, label string, duration time.Duration) (time.Time, time.Time, error) {
	hour, err := SlotHour(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	localDay := day.In(BusinessLocation())
	start := time.Date(localDay.Year(), localDay.Month(), localDay.Day(), hour, 0, 0, 0, BusinessLocation())
	return start, start.Add(duration), nil
}
