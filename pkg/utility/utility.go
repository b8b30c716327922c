package utility

import "strings"

// BytesToString convert byte list to string with no allocation
//
// A small cost a few ns in testing is incurred for using a string builder.
// There are no heap allocations using strings.Builder.
func BytesToString(bytes ...byte) string {
	var sb = new(strings.Builder)
	for i := 0; i < len(bytes); i++ {
		sb.WriteByte(bytes[i])
	}
	return sb.String()
}

// IsDigits reports whether s is non-empty and made up only of ASCII digits.
// Signs, spaces and non-ASCII digits are rejected.
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PadRight pads s with c up to width characters. Strings already at or
// beyond width are returned unchanged.
//
//   PadRight("5", 9, '0') == "500000000"
func PadRight(s string, width int, c byte) string {
	if len(s) >= width {
		return s
	}
	var sb = new(strings.Builder)
	sb.Grow(width)
	sb.WriteString(s)
	for i := len(s); i < width; i++ {
		sb.WriteByte(c)
	}
	return sb.String()
}

// DaysBefore[m] counts the number of days in a non-leap year
// before month m begins. There is an entry for m=12, counting
// the number of days before January of next year (365).
var DaysBefore = [...]int32{
	0,
	31,
	31 + 28,
	31 + 28 + 31,
	31 + 28 + 31 + 30,
	31 + 28 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30 + 31,
}

// DaysIn returns the number of days in month m (1-12) of a non-leap year.
// February 29 is the caller's concern.
func DaysIn(m int) int32 {
	return DaysBefore[m] - DaysBefore[m-1]
}
