package epochnanos

import (
	"math"

	"github.com/JohnCGriffin/overflow"
	"github.com/imarsman/epochnanos/pkg/utility"
)

// EpochYear is the first year the calendar arithmetic supports.
const EpochYear = 1970

// Second counts for the fixed blocks used to walk from the epoch to a year.
// Each block starts on the year the walk has reached, so the leap days
// inside a block are fixed by where the walk is when the block is taken.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	secondsPerYear        = 365 * secondsPerDay    // 31536000
	secondsPer4Years      = 1461 * secondsPerDay   // 126230400, one leap day
	secondsFrom1972To2000 = 10227 * secondsPerDay  // 883612800, 1972 to 1996 are leap
	secondsPer100Years    = 36524 * secondsPerDay  // 3155673600, 24 leap days
	secondsPer400Years    = 146097 * secondsPerDay // 12622780800, 97 leap days
)

// Cumulative seconds from the start of the year to the start of each month.
// Index m-1 gives the offset of month m, index 12 is the length of the year.
var (
	monthSecondsCommon [13]int64
	monthSecondsLeap   [13]int64
)

func init() {
	for m := 0; m < len(utility.DaysBefore); m++ {
		monthSecondsCommon[m] = int64(utility.DaysBefore[m]) * secondsPerDay
		monthSecondsLeap[m] = monthSecondsCommon[m]
		// February 29
		if m >= 2 {
			monthSecondsLeap[m] += secondsPerDay
		}
	}
}

// IsLeapYear reports whether year has 366 days in the Gregorian calendar.
// Years divisible by 4 are leap years except centuries, and centuries
// divisible by 400 are leap years again.
func IsLeapYear(year uint64) bool {
	if year%4 != 0 {
		return false
	}
	return year%100 != 0 || year%400 == 0
}

// DaysInMonth returns the number of days in month (1-12) of year, or 0 if
// month is out of range.
func DaysInMonth(year, month uint64) uint64 {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return uint64(utility.DaysIn(int(month)))
}

// yearWalk accumulates seconds while moving a year counter toward target in
// blocks of whole years. The first error stops all further steps.
type yearWalk struct {
	target  int64
	year    int64
	seconds int64
	err     error
}

// blocks advances by as many complete blocks of size years as fit before
// target, adding seconds for each.
func (w *yearWalk) blocks(size, seconds int64) {
	if w.err != nil {
		return
	}
	n := (w.target - w.year) / size
	if n == 0 {
		return
	}
	add, ok := overflow.Mul64(n, seconds)
	if ok {
		w.seconds, ok = overflow.Add64(w.seconds, add)
	}
	if !ok {
		w.err = &OverflowError{Step: "year seconds"}
		return
	}
	w.year += n * size
}

// leapYear steps over the current year if it is a leap year that lies
// before target.
func (w *yearWalk) leapYear() {
	if w.err != nil {
		return
	}
	if w.year < w.target && IsLeapYear(uint64(w.year)) {
		var ok bool
		w.seconds, ok = overflow.Add64(w.seconds, secondsPerYear+secondsPerDay)
		if !ok {
			w.err = &OverflowError{Step: "year seconds"}
			return
		}
		w.year++
	}
}

// yearSeconds returns the seconds from the epoch to January 1 of year.
//
// 1970 and 1971 are common years. From 1972 the walk jumps to 2000 with a
// fixed constant, then takes 400 year blocks, the leap year 2000+400n, 100
// year blocks that begin the year after a 400 year boundary, 4 year blocks,
// a leading leap year, and finally single common years.
func yearSeconds(year uint64) (int64, error) {
	if year < EpochYear {
		return 0, &UnsupportedYearError{Year: year}
	}
	if year > math.MaxInt64 {
		return 0, &OverflowError{Step: "year"}
	}

	w := yearWalk{target: int64(year), year: EpochYear}
	if w.target < 1972 {
		w.blocks(1, secondsPerYear)
		return w.seconds, w.err
	}

	w.year, w.seconds = 1972, 2*secondsPerYear
	if w.target >= 2000 {
		w.year, w.seconds = 2000, w.seconds+secondsFrom1972To2000

		w.blocks(400, secondsPer400Years)
		w.leapYear()
		w.blocks(100, secondsPer100Years)
	}
	w.blocks(4, secondsPer4Years)
	w.leapYear()
	w.blocks(1, secondsPerYear)

	return w.seconds, w.err
}

// monthSeconds returns the seconds from January 1 of year to the first day
// of month.
func monthSeconds(year, month uint64) (int64, error) {
	if month < 1 || month > 12 {
		return 0, &InvalidCalendarDateError{Field: StageMonth, Value: month, Min: 1, Max: 12}
	}
	if IsLeapYear(year) {
		return monthSecondsLeap[month-1], nil
	}
	return monthSecondsCommon[month-1], nil
}
