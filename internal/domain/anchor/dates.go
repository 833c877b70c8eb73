// internal/domain/anchor/dates.go
package anchor

import (
	"math"
	"time"
)

// DateLayout is the Brazilian day/month/year format used in task payloads.
const DateLayout = "02/01/2006"

// AddDays returns the date offset by n calendar days (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// TruncateDay strips the time-of-day component.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonthDay reports whether two dates share month and day, ignoring the
// year. Used for birthday matching.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysSince counts whole days elapsed from `from` until `now`, flooring the
// delta so that "today" counts as zero days since.
func DaysSince(from, now time.Time) int {
	return int(math.Floor(now.Sub(from).Hours() / 24))
}

// DaysUntil counts days remaining from `now` until `until`, ceiling the
// delta so outstanding days round up. The floor/ceil asymmetry with
// DaysSince is intentional; it sets the eligibility-window boundaries for
// the follow-up and renewal anchors.
func DaysUntil(until, now time.Time) int {
	return int(math.Ceil(until.Sub(now).Hours() / 24))
}

// CalculateAge returns full years between birth and now, correcting for
// whether the birthday has happened yet this year.
func CalculateAge(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// TemporalGreeting buckets the time of day into a Portuguese greeting:
// 05:00–11:59 morning, 12:00–17:59 afternoon, everything else evening.
func TemporalGreeting(now time.Time) string {
	h := now.Hour()
	switch {
	case h >= 5 && h < 12:
		return "Bom dia"
	case h >= 12 && h < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}
