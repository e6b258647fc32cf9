package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a named reporting window ending on a given date. All periods but
// YTD are rolling calendar-day windows; YTD starts on January 1st of the end
// date's year.
type Period int

const (
	Week Period = iota
	Month
	Quarter
	Year
	YTD
)

func (p Period) String() string {
	switch p {
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	case YTD:
		return "ytd"
	default:
		return "unknown"
	}
}

// ParsePeriod parses a string into a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	case "quarter":
		return Quarter, nil
	case "year":
		return Year, nil
	case "ytd":
		return YTD, nil
	default:
		return Week, fmt.Errorf("unknown period %q", s)
	}
}

// Range returns the reporting range for the period ending on 'end'.
func (p Period) Range(end Date) Range {
	switch p {
	case Week:
		return Range{From: end.Add(-7), To: end}
	case Month:
		return Range{From: end.Add(-30), To: end}
	case Quarter:
		return Range{From: end.Add(-90), To: end}
	case Year:
		return Range{From: end.Add(-365), To: end}
	case YTD:
		return Range{From: New(end.Year(), time.January, 1), To: end}
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}
