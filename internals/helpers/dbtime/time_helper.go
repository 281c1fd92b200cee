package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const LocAppLoc = "app_loc"

// StartOfDay is local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts whole calendar days from `from` to `to` in loc.
// Negative when to is before from.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := StartOfDay(from, loc)
	b := StartOfDay(to, loc)
	// Round absorbs DST shifts of an hour.
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// MonthKey formats t as YYYY-MM in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01")
}

// LastMonths returns n YYYY-MM keys ending with the month of now, oldest first.
func LastMonths(now time.Time, n int, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	lt := now.In(loc)
	first := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, first.AddDate(0, -i, 0).Format("2006-01"))
	}
	return out
}

// GetLocation returns the zone the request middleware stored, UTC otherwise.
func GetLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocAppLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseDatePtr is ParseDate for optional fields; blank gives nil.
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
