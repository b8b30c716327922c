package epochnanos

import (
	"strconv"

	"github.com/JohnCGriffin/overflow"
)

// NanosPerSecond is the scale between the whole seconds and the fractional
// part of an EpochNanos value.
const NanosPerSecond = 1_000_000_000

// EpochNanos is a count of nanoseconds since 1970-01-01T00:00:00Z.
type EpochNanos uint64

// Seconds whole seconds since the epoch
func (n EpochNanos) Seconds() uint64 {
	return uint64(n) / NanosPerSecond
}

// Subsec nanoseconds past the last whole second
func (n EpochNanos) Subsec() uint64 {
	return uint64(n) % NanosPerSecond
}

// String decimal count of nanoseconds
func (n EpochNanos) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// CalendarFields are the parts of a UTC timestamp. Values are unchecked
// until Validate is called.
type CalendarFields struct {
	Year            uint64
	Month           uint64 // 1-12
	Day             uint64 // 1-31
	Hour            uint64 // 0-23
	Minute          uint64 // 0-59
	Second          uint64 // 0-59
	FractionalNanos uint64 // 0-999999999
}

// Validate checks that every field is within range for its position,
// including the day against the length of the month in that year.
func (f CalendarFields) Validate() error {
	if f.Month < 1 || f.Month > 12 {
		return &InvalidCalendarDateError{Field: StageMonth, Value: f.Month, Min: 1, Max: 12}
	}
	if last := DaysInMonth(f.Year, f.Month); f.Day < 1 || f.Day > last {
		return &InvalidCalendarDateError{Field: StageDay, Value: f.Day, Min: 1, Max: last}
	}
	if f.Hour > 23 {
		return &InvalidCalendarDateError{Field: StageHour, Value: f.Hour, Max: 23}
	}
	if f.Minute > 59 {
		return &InvalidCalendarDateError{Field: StageMinute, Value: f.Minute, Max: 59}
	}
	// No leap seconds
	if f.Second > 59 {
		return &InvalidCalendarDateError{Field: StageSecond, Value: f.Second, Max: 59}
	}
	if f.FractionalNanos >= NanosPerSecond {
		return &InvalidCalendarDateError{Field: StageFraction, Value: f.FractionalNanos, Max: NanosPerSecond - 1}
	}

	return nil
}

// UnixSeconds whole seconds from the epoch to the timestamp described by f.
// The fraction is ignored.
func (f CalendarFields) UnixSeconds() (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	ys, err := yearSeconds(f.Year)
	if err != nil {
		return 0, err
	}
	ms, err := monthSeconds(f.Year, f.Month)
	if err != nil {
		return 0, err
	}

	// Validated above so none of these can overflow on their own
	ds := int64(f.Day-1) * secondsPerDay
	ts := int64(f.Hour)*secondsPerHour + int64(f.Minute)*secondsPerMinute + int64(f.Second)

	sum, ok := sumInt64(ys, ms, ds, ts)
	if !ok {
		return 0, &OverflowError{Step: "seconds since epoch"}
	}

	return sum, nil
}

// EpochNanos nanoseconds from the epoch to the timestamp described by f.
func (f CalendarFields) EpochNanos() (EpochNanos, error) {
	seconds, err := f.UnixSeconds()
	if err != nil {
		return 0, err
	}

	return Assemble(seconds, f.FractionalNanos)
}

// sumInt64 adds a list of int64s, reporting false if the sum overflows.
func sumInt64(int64s ...int64) (sum int64, ok bool) {
	for i := 0; i < len(int64s); i++ {
		sum, ok = overflow.Add64(sum, int64s[i])
		if ok == false {
			return sum, false
		}
	}

	return sum, true
}

// Assemble combines whole seconds since the epoch and a nanosecond fraction
// into one count. The result must fit a signed 64 bit integer, which holds
// times up to 2262-04-11T23:47:16.854775807Z.
func Assemble(seconds int64, fractionalNanos uint64) (EpochNanos, error) {
	if seconds < 0 {
		return 0, &OverflowError{Step: "negative seconds"}
	}
	if fractionalNanos >= NanosPerSecond {
		return 0, &InvalidCalendarDateError{Field: StageFraction, Value: fractionalNanos, Max: NanosPerSecond - 1}
	}

	nanos, ok := overflow.Mul64(seconds, NanosPerSecond)
	if ok {
		nanos, ok = overflow.Add64(nanos, int64(fractionalNanos))
	}
	if !ok {
		return 0, &OverflowError{Step: "nanoseconds since epoch"}
	}

	return EpochNanos(nanos), nil
}

// Convert a timestamp of the form YYYY-MM-DDTHH:MM:SS[.fraction]Z to
// nanoseconds since the epoch. Only integer arithmetic is used and no
// calendar or zone data from the host is consulted, so the result is the
// same everywhere.
//
// Errors are one of *MalformedTimestampError, *InvalidCalendarDateError,
// *UnsupportedYearError or *OverflowError.
func Convert(timeStr string) (EpochNanos, error) {
	fields, err := ParseFields(timeStr)
	if err != nil {
		return 0, err
	}

	return fields.EpochNanos()
}

// MustConvert is like Convert but panics on error. Only use it with
// constant input.
func MustConvert(timeStr string) EpochNanos {
	n, err := Convert(timeStr)
	if err != nil {
		panic(err)
	}
	return n
}
