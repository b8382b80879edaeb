package ion

import (
	"fmt"
	"time"
)

// TimestampPrecision tracks how much of a Timestamp's fields were actually
// present in the encoding, as opposed to defaulted.
type TimestampPrecision uint8

const (
	// TimestampNoPrecision is the zero value, never produced by a decode.
	TimestampNoPrecision TimestampPrecision = iota
	TimestampPrecisionYear
	TimestampPrecisionMonth
	TimestampPrecisionDay
	TimestampPrecisionMinute
	TimestampPrecisionSecond
	TimestampPrecisionNanosecond
)

func (p TimestampPrecision) String() string {
	switch p {
	case TimestampNoPrecision:
		return "<no precision>"
	case TimestampPrecisionYear:
		return "year"
	case TimestampPrecisionMonth:
		return "month"
	case TimestampPrecisionDay:
		return "day"
	case TimestampPrecisionMinute:
		return "minute"
	case TimestampPrecisionSecond:
		return "second"
	case TimestampPrecisionNanosecond:
		return "nanosecond"
	default:
		return fmt.Sprintf("<unknown precision %v>", uint8(p))
	}
}

// TimezoneKind distinguishes an explicit UTC offset from "no offset was
// recorded" (offset -00:00, per the Ion spec's convention for "unknown
// local time").
type TimezoneKind uint8

const (
	// TimezoneUnspecified marks a timestamp with no meaningful offset: an
	// encoded "-00:00" offset. The decoder sets it from the offset field
	// alone, whatever the precision.
	TimezoneUnspecified TimezoneKind = iota
	// TimezoneUTC marks an explicit zero offset.
	TimezoneUTC
	// TimezoneLocal marks an explicit non-zero offset.
	TimezoneLocal
)

// Timestamp is a decoded Ion timestamp. The UTC instant and the original
// offset are kept separately, so normalizing to UTC loses nothing.
type Timestamp struct {
	year, month, day     int
	hour, minute, second int
	nsec                 int
	offsetMinutes        int
	tz                   TimezoneKind
	precision            TimestampPrecision
}

// NewTimestamp builds a Timestamp from its components. offsetMinutes is the
// signed UTC offset in minutes; tz records whether that offset was actually
// present in the encoding.
func NewTimestamp(year, month, day, hour, minute, second, nsec, offsetMinutes int, tz TimezoneKind, precision TimestampPrecision) Timestamp {
	return Timestamp{
		year: year, month: month, day: day,
		hour: hour, minute: minute, second: second,
		nsec: nsec, offsetMinutes: offsetMinutes,
		tz: tz, precision: precision,
	}
}

// Precision reports how much of the timestamp's fields were actually
// present in the encoding.
func (t Timestamp) Precision() TimestampPrecision {
	return t.precision
}

// OffsetMinutes returns the timestamp's UTC offset in minutes, as encoded.
func (t Timestamp) OffsetMinutes() int {
	return t.offsetMinutes
}

// TimezoneKind reports whether the timestamp carried an explicit offset.
func (t Timestamp) TimezoneKind() TimezoneKind {
	return t.tz
}

// UTC returns the instant this timestamp denotes, normalized to UTC.
func (t Timestamp) UTC() time.Time {
	local := time.Date(t.year, time.Month(t.month), t.day, t.hour, t.minute, t.second, t.nsec, time.UTC)
	return local.Add(-time.Duration(t.offsetMinutes) * time.Minute)
}

// Equal reports whether two timestamps denote the same instant with the
// same recorded precision and offset. It does not merely compare UTC
// instants: two timestamps with different stated precision are distinct
// even if they happen to fall on the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.year == o.year && t.month == o.month && t.day == o.day &&
		t.hour == o.hour && t.minute == o.minute && t.second == o.second &&
		t.nsec == o.nsec && t.offsetMinutes == o.offsetMinutes &&
		t.tz == o.tz && t.precision == o.precision
}

func (t Timestamp) String() string {
	layout := t.precision.layout(t.tz, 9)
	return t.asTime().Format(layout)
}

func (t Timestamp) asTime() time.Time {
	loc := time.FixedZone("", t.offsetMinutes*60)
	return time.Date(t.year, time.Month(t.month), t.day, t.hour, t.minute, t.second, t.nsec, loc)
}

// layout returns a time.Format layout string suited to this precision
// and timezone kind.
func (p TimestampPrecision) layout(kind TimezoneKind, nsecDigits uint8) string {
	switch p {
	case TimestampPrecisionYear:
		return "2006T"
	case TimestampPrecisionMonth:
		return "2006-01T"
	case TimestampPrecisionDay:
		return "2006-01-02T"
	case TimestampPrecisionMinute:
		if kind == TimezoneUnspecified {
			return "2006-01-02T15:04-07:00"
		}
		return "2006-01-02T15:04Z07:00"
	case TimestampPrecisionSecond:
		if kind == TimezoneUnspecified {
			return "2006-01-02T15:04:05-07:00"
		}
		return "2006-01-02T15:04:05Z07:00"
	case TimestampPrecisionNanosecond:
		layout := "2006-01-02T15:04:05"
		if nsecDigits > 9 {
			nsecDigits = 9
		}
		if nsecDigits > 0 {
			layout += "."
			for i := uint8(0); i < nsecDigits; i++ {
				layout += "9"
			}
		}
		if kind == TimezoneUnspecified {
			return layout + "-07:00"
		}
		return layout + "Z07:00"
	default:
		return time.RFC3339Nano
	}
}
