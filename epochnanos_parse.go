package epochnanos

import (
	"strings"

	"github.com/JohnCGriffin/overflow"
	"github.com/imarsman/epochnanos/pkg/utility"
	"lab.nexedi.com/kirr/go123/xfmt"
)

const (
	maxLength      int = 64 // max length for a timestamp string
	fractionDigits int = 9  // max length for fractional seconds, nanosecond precision
	dateFieldCount int = 3  // year, month, day
	timeFieldCount int = 3  // hour, minute, second with optional fraction
)

// parseDigits converts a run of ASCII digits to an integer. Anything else,
// including an empty string or a sign, is malformed for stage.
func parseDigits(timeStr string, stage Stage, in string) (uint64, error) {
	if utility.IsDigits(in) == false {
		xfmtBuf := new(xfmt.Buffer)
		xfmtBuf.S("expected digits, got '").S(in).S("'")

		return 0, malformed(timeStr, stage, utility.BytesToString(xfmtBuf.Bytes()...))
	}

	var n int64
	for i := 0; i < len(in); i++ {
		var ok bool
		n, ok = overflow.Mul64(n, 10)
		if ok {
			n, ok = overflow.Add64(n, int64(in[i]-'0'))
		}
		if !ok {
			xfmtBuf := new(xfmt.Buffer)
			xfmtBuf.S("value '").S(in).S("' is too large")

			return 0, malformed(timeStr, stage, utility.BytesToString(xfmtBuf.Bytes()...))
		}
	}

	return uint64(n), nil
}

// arityDetail describes a wrong field count for the date or time part.
func arityDetail(sep byte, want, got int) string {
	xfmtBuf := new(xfmt.Buffer)
	xfmtBuf.S("expected ").D(want).S(" fields separated by '").C(rune(sep)).
		S("', got ").D(got)

	return utility.BytesToString(xfmtBuf.Bytes()...)
}

// ParseFields splits a timestamp of the form YYYY-MM-DDTHH:MM:SS[.fraction]Z
// into its calendar fields. The fraction, if present, is 1 to 9 digits and
// is right padded to nanoseconds, so ".5" is 500000000.
//
// Only the structure of the input is checked here. Field ranges and the
// day of month are checked by CalendarFields.Validate.
func ParseFields(timeStr string) (f CalendarFields, err error) {
	timeStrLength := len(timeStr)
	if timeStrLength > maxLength {
		xfmtBuf := new(xfmt.Buffer)
		xfmtBuf.S("length is ").D(timeStrLength).S(" and > max of ").D(maxLength)

		err = malformed(timeStr[0:maxLength]+"...", StageLength, utility.BytesToString(xfmtBuf.Bytes()...))
		return
	}

	datePart, timePart, found := strings.Cut(timeStr, "T")
	if !found {
		err = malformed(timeStr, StageSeparator, "missing 'T' between date and time")
		return
	}
	if strings.IndexByte(timePart, 'T') >= 0 {
		err = malformed(timeStr, StageSeparator, "more than one 'T'")
		return
	}

	// Only UTC is accepted
	if strings.HasSuffix(timePart, "Z") == false {
		err = malformed(timeStr, StageZone, "missing trailing 'Z'")
		return
	}
	timePart = timePart[:len(timePart)-1]

	dateParts := strings.Split(datePart, "-")
	if len(dateParts) != dateFieldCount {
		err = malformed(timeStr, StageDate, arityDetail('-', dateFieldCount, len(dateParts)))
		return
	}

	timeParts := strings.Split(timePart, ":")
	if len(timeParts) != timeFieldCount {
		err = malformed(timeStr, StageTime, arityDetail(':', timeFieldCount, len(timeParts)))
		return
	}

	secondPart, fractionPart, hasFraction := strings.Cut(timeParts[2], ".")

	if f.Year, err = parseDigits(timeStr, StageYear, dateParts[0]); err != nil {
		return
	}
	if f.Month, err = parseDigits(timeStr, StageMonth, dateParts[1]); err != nil {
		return
	}
	if f.Day, err = parseDigits(timeStr, StageDay, dateParts[2]); err != nil {
		return
	}
	if f.Hour, err = parseDigits(timeStr, StageHour, timeParts[0]); err != nil {
		return
	}
	if f.Minute, err = parseDigits(timeStr, StageMinute, timeParts[1]); err != nil {
		return
	}
	if f.Second, err = parseDigits(timeStr, StageSecond, secondPart); err != nil {
		return
	}

	// No fraction means zero nanoseconds
	if hasFraction == false {
		return
	}

	fractionLen := len(fractionPart)
	if fractionLen > fractionDigits {
		xfmtBuf := new(xfmt.Buffer)
		xfmtBuf.S("has ").D(fractionLen).S(" digits and > max of ").D(fractionDigits)

		err = malformed(timeStr, StageFraction, utility.BytesToString(xfmtBuf.Bytes()...))
		return
	}

	if fractionLen == 0 {
		err = malformed(timeStr, StageFraction, "no digits after '.'")
		return
	}

	// A second '.' fails as a non-digit
	f.FractionalNanos, err = parseDigits(timeStr, StageFraction, utility.PadRight(fractionPart, fractionDigits, '0'))

	return
}
