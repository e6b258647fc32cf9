package tradebook

import (
	"time"

	"github.com/tbower/tradebook/date"
)

// day is shorthand for date.New in tests.
func day(year, month, d int) Date { return date.New(year, time.Month(month), d) }
