package ion

import (
	"testing"
	"time"
)

func TestTimestampUTC(t *testing.T) {
	ts := NewTimestamp(2000, 1, 1, 12, 30, 15, 0, 0, TimezoneUTC, TimestampPrecisionSecond)
	want := time.Date(2000, 1, 1, 12, 30, 15, 0, time.UTC)
	if !ts.UTC().Equal(want) {
		t.Errorf("expected %v, got %v", want, ts.UTC())
	}
}

func TestTimestampOffsetNormalizesToUTC(t *testing.T) {
	// 2000-01-01T12:30:00-05:00 is 17:30:00Z.
	ts := NewTimestamp(2000, 1, 1, 12, 30, 0, 0, -5*60, TimezoneLocal, TimestampPrecisionSecond)
	want := time.Date(2000, 1, 1, 17, 30, 0, 0, time.UTC)
	if !ts.UTC().Equal(want) {
		t.Errorf("expected %v, got %v", want, ts.UTC())
	}
}

func TestTimestampEqualConsidersPrecisionAndOffset(t *testing.T) {
	a := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 0, TimezoneUTC, TimestampPrecisionDay)
	b := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 0, TimezoneUTC, TimestampPrecisionSecond)
	if a.Equal(b) {
		t.Error("timestamps with different precision must not be Equal")
	}

	c := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 0, TimezoneUTC, TimestampPrecisionDay)
	d := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 60, TimezoneLocal, TimestampPrecisionDay)
	if c.Equal(d) {
		t.Error("timestamps with different offsets must not be Equal, even at the same precision")
	}
}

func TestTimestampPrecisionString(t *testing.T) {
	cases := map[TimestampPrecision]string{
		TimestampPrecisionYear:       "year",
		TimestampPrecisionMonth:      "month",
		TimestampPrecisionDay:        "day",
		TimestampPrecisionMinute:     "minute",
		TimestampPrecisionSecond:     "second",
		TimestampPrecisionNanosecond: "nanosecond",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("%v: expected %q, got %q", int(p), want, got)
		}
	}
}

func TestTimestampStringDayPrecision(t *testing.T) {
	ts := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 0, TimezoneUnspecified, TimestampPrecisionDay)
	if got := ts.String(); got != "2000-01-01T" {
		t.Errorf("expected 2000-01-01T, got %q", got)
	}
}

func TestTimestampStringSecondPrecisionUTC(t *testing.T) {
	ts := NewTimestamp(2000, 1, 1, 0, 0, 0, 0, 0, TimezoneUTC, TimestampPrecisionSecond)
	if got := ts.String(); got != "2000-01-01T00:00:00Z" {
		t.Errorf("expected 2000-01-01T00:00:00Z, got %q", got)
	}
}
