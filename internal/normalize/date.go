package normalize

import (
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical textual form of a parsed date.
const ISODate = "2006-01-02"

// DateParse describes how a date string was interpreted.
type DateParse struct {
	Time   time.Time
	Layout string
	// Ambiguous is set when a month-first slash layout won although the
	// day-first reading would also have produced a different valid date.
	Ambiguous bool
}

type dateLayout struct {
	name   string
	parse  func(string) (time.Time, bool)
	dayPos int // index of the day component
}

// Month-first layouts come before day-first ones: U.S. dates dominate the
// source data. For slash dates with day and month both <= 12 this is a guess.
// yyyy-MM-dd and yyyy-MM-dd HH:mm:ss are taken by parseISOPrefix.
var dateLayouts = []dateLayout{
	{name: "MM/dd/yyyy", parse: slashLayout(monthFirst, 2, 2, 4), dayPos: 1},
	{name: "MM/dd/yy", parse: slashLayout(monthFirst, 2, 2, 2), dayPos: 1},
	{name: "dd/MM/yyyy", parse: slashLayout(dayFirst, 2, 2, 4), dayPos: 0},
	{name: "dd/MM/yy", parse: slashLayout(dayFirst, 2, 2, 2), dayPos: 0},
	{name: "M/d/yyyy", parse: slashLayout(monthFirst, 1, 1, 4), dayPos: 1},
	{name: "M/d/yy", parse: slashLayout(monthFirst, 1, 1, 2), dayPos: 1},
	{name: "d/M/yyyy", parse: slashLayout(dayFirst, 1, 1, 4), dayPos: 0},
	{name: "d/M/yy", parse: slashLayout(dayFirst, 1, 1, 2), dayPos: 0},
}

// ParseDate converts a loosely formatted date into a calendar date at
// 00:00 UTC. Empty or unrecognised input yields false.
func ParseDate(s string) (time.Time, bool) {
	p, ok := ParseDateDetailed(s)
	return p.Time, ok
}

// ParseDatePtr is ParseDate returning nil for absent dates.
func ParseDatePtr(s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}

// ParseDateDetailed is ParseDate with the matching layout and ambiguity flag.
func ParseDateDetailed(s string) (DateParse, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateParse{}, false
	}

	if t, ok := parseISOPrefix(s); ok {
		return DateParse{Time: t, Layout: "iso"}, true
	}

	for _, l := range dateLayouts {
		t, ok := l.parse(s)
		if !ok {
			continue
		}
		if t.Year() < 100 {
			t = t.AddDate(2000, 0, 0)
		}
		return DateParse{Time: t, Layout: l.name, Ambiguous: isAmbiguous(s, l)}, true
	}
	return DateParse{}, false
}

// FormatDate renders t as yyyy-MM-dd, or nil when t is nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(ISODate)
	return &s
}

func parseISOPrefix(s string) (time.Time, bool) {
	if len(s) < 10 || !strings.Contains(s, "-") {
		return time.Time{}, false
	}
	if rest := s[10:]; rest != "" && rest[0] != ' ' && rest[0] != 'T' {
		return time.Time{}, false
	}
	t, err := time.Parse(ISODate, s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type componentOrder int

const (
	monthFirst componentOrder = iota
	dayFirst
)

// slashLayout builds a parser for a/b/year dates. Padded tokens need exactly
// two digits; unpadded ones accept one or two. A yearDigits of 4 (yyyy)
// needs exactly four digits, 2 (yy) accepts one or two.
func slashLayout(order componentOrder, firstDigits, secondDigits, yearDigits int) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		a, ok := component(parts[0], firstDigits)
		if !ok {
			return time.Time{}, false
		}
		b, ok := component(parts[1], secondDigits)
		if !ok {
			return time.Time{}, false
		}
		if !yearToken(parts[2], yearDigits) {
			return time.Time{}, false
		}
		year, _ := strconv.Atoi(parts[2])

		month, dayOfMonth := a, b
		if order == dayFirst {
			month, dayOfMonth = b, a
		}
		return validDate(year, month, dayOfMonth)
	}
}

// component parses a month or day token. width 2 means exactly two digits,
// width 1 means one or two.
func component(s string, width int) (int, bool) {
	if !allDigits(s) {
		return 0, false
	}
	if width == 2 && len(s) != 2 {
		return 0, false
	}
	if width == 1 && (len(s) < 1 || len(s) > 2) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func yearToken(s string, digits int) bool {
	if !allDigits(s) {
		return false
	}
	if digits == 4 {
		return len(s) == 4
	}
	return len(s) <= digits
}

func validDate(year, month, dayOfMonth int) (time.Time, bool) {
	if month < 1 || month > 12 || dayOfMonth < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != dayOfMonth {
		return time.Time{}, false
	}
	return t, true
}

func isAmbiguous(s string, l dateLayout) bool {
	if l.dayPos != 1 {
		return false
	}
	parts := strings.Split(s, "/")
	month, _ := strconv.Atoi(parts[0])
	dayOfMonth, _ := strconv.Atoi(parts[1])
	return dayOfMonth <= 12 && dayOfMonth != month
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
