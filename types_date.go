package tradebook

import "github.com/tbower/tradebook/date"

// Aliases into the date package, so that the rest of the package reads
// without the extra qualifier.

type Date = date.Date
type Range = date.Range
type Period = date.Period

// NewDate returns a normalized Date for the given year, month, and day.
var NewDate = date.New

// Today returns the current date.
var Today = date.Today

// ParseDate parses a Date from a string in ISO form.
var ParseDate = date.Parse

// ParsePeriod parses a reporting period name (week, month, quarter, year, ytd).
var ParsePeriod = date.ParsePeriod

// The reporting periods.
const (
	Week    = date.Week
	Month   = date.Month
	Quarter = date.Quarter
	Year    = date.Year
	YTD     = date.YTD
)
