package epochnanos

import (
	"errors"
	"strconv"

	"github.com/imarsman/epochnanos/pkg/utility"
	"lab.nexedi.com/kirr/go123/xfmt"
)

// Stage names the part of a timestamp string that failed to parse.
type Stage string

// Parse stages reported by MalformedTimestampError
const (
	StageLength    Stage = "length"    // whole input too long
	StageSeparator Stage = "separator" // date/time separator 'T'
	StageZone      Stage = "zone"      // trailing 'Z'
	StageDate      Stage = "date"      // YYYY-MM-DD arity
	StageTime      Stage = "time"      // HH:MM:SS arity
	StageYear      Stage = "year"
	StageMonth     Stage = "month"
	StageDay       Stage = "day"
	StageHour      Stage = "hour"
	StageMinute    Stage = "minute"
	StageSecond    Stage = "second"
	StageFraction  Stage = "fraction" // fractional seconds, at most 9 digits
)

// MalformedTimestampError is returned when a timestamp string does not have
// the form YYYY-MM-DDTHH:MM:SS[.fraction]Z.
type MalformedTimestampError struct {
	Stage  Stage
	Detail string
	Input  string
}

func (e *MalformedTimestampError) Error() string {
	// Avoid allocations that would occur with fmt.Sprintf
	buf := new(xfmt.Buffer)
	buf.S("epochnanos: malformed timestamp ").S(strconv.Quote(e.Input)).
		S(" at ").S(string(e.Stage)).S(": ").S(e.Detail)

	return utility.BytesToString(buf.Bytes()...)
}

func malformed(input string, stage Stage, detail string) *MalformedTimestampError {
	return &MalformedTimestampError{Stage: stage, Detail: detail, Input: input}
}

// UnsupportedYearError is returned for years before the epoch year.
type UnsupportedYearError struct {
	Year uint64
}

func (e *UnsupportedYearError) Error() string {
	buf := new(xfmt.Buffer)
	buf.S("epochnanos: year ").S(strconv.FormatUint(e.Year, 10)).
		S(" is before ").D(EpochYear)

	return utility.BytesToString(buf.Bytes()...)
}

// OverflowError is returned when a value no longer fits in a signed 64 bit
// integer. Step names the calculation that overflowed.
type OverflowError struct {
	Step string
}

func (e *OverflowError) Error() string {
	buf := new(xfmt.Buffer)
	buf.S("epochnanos: overflow computing ").S(e.Step)

	return utility.BytesToString(buf.Bytes()...)
}

// InvalidCalendarDateError is returned when a parsed field is outside the
// range allowed for it, such as day 30 of February or hour 24.
type InvalidCalendarDateError struct {
	Field Stage
	Value uint64
	Min   uint64
	Max   uint64
}

func (e *InvalidCalendarDateError) Error() string {
	buf := new(xfmt.Buffer)
	buf.S("epochnanos: ").S(string(e.Field)).C(' ').S(strconv.FormatUint(e.Value, 10)).
		S(" not in range ").S(strconv.FormatUint(e.Min, 10)).
		S("..").S(strconv.FormatUint(e.Max, 10))

	return utility.BytesToString(buf.Bytes()...)
}

// IsMalformed checks whether an error is a MalformedTimestampError and
// returns it.
func IsMalformed(err error) (*MalformedTimestampError, bool) {
	var e *MalformedTimestampError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUnsupportedYear checks whether an error is an UnsupportedYearError and
// returns it.
func IsUnsupportedYear(err error) (*UnsupportedYearError, bool) {
	var e *UnsupportedYearError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsOverflow checks whether an error is an OverflowError and returns it.
func IsOverflow(err error) (*OverflowError, bool) {
	var e *OverflowError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsInvalidCalendarDate checks whether an error is an
// InvalidCalendarDateError and returns it.
func IsInvalidCalendarDate(err error) (*InvalidCalendarDateError, bool) {
	var e *InvalidCalendarDateError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
