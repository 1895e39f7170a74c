package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// MM/DD/YYYY or M/D/YY, optionally followed by a time of day
	usDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})(?:[ T,]+(.+))?$`)
	// YYYY-MM-DD with anything after it
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ](\d{1,2}:\d{2}(?::\d{2})?))?`)
)

var genericLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"20060102",
	"02.01.2006",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
	"15:04:05.000",
}

// ParseDate reads a date cell and any time of day riding along with it.
// Accepted in priority order: MM/DD/YYYY, M/D/YY (two-digit years are 20YY),
// ISO YYYY-MM-DD[...], then a list of generic layouts. ok is false when nothing
// matched; the returned date is then the start of today per now.
func ParseDate(s string, now time.Time) (date time.Time, clock string, ok bool) {
	s = strings.TrimSpace(s)

	if m := usDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if d, valid := calendarDate(year, month, day); valid {
			return d, ParseClock(m[4]), true
		}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, valid := calendarDate(year, month, day); valid {
			return d, ParseClock(m[4]), true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			clock := ""
			if strings.Contains(layout, "15") {
				clock = t.Format("15:04:05")
			}
			return truncateDay(t), clock, true
		}
	}

	return truncateDay(now), "", false
}

// ParseClock normalizes a time-of-day cell to HH:MM:SS, or "" when it is not one.
func ParseClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// drop a trailing zone designator such as "Z", "ET" or "+05:30"
	if i := strings.IndexAny(s, "Z+"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	if fields := strings.Fields(s); len(fields) == 2 && !isMeridiem(fields[1]) {
		s = fields[0]
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Format("15:04:05")
		}
	}
	return ""
}

func isMeridiem(s string) bool {
	s = strings.ToUpper(s)
	return s == "AM" || s == "PM"
}

func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March
	if d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
