package util

import (
	"math"
	"testing"
	"time"
)

func TestFromSerialDateKnownValues(t *testing.T) {
	cases := []struct {
		serial float64
		want   time.Time
	}{
		{2, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
		{45292, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{45292.75, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{45323, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := FromSerialDate(c.serial)
		if !ok {
			t.Fatalf("serial %v: expected ok", c.serial)
		}
		if !got.Equal(c.want) {
			t.Fatalf("serial %v: got %v want %v", c.serial, got, c.want)
		}
	}
}

func TestFromSerialDateRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e12} {
		if _, ok := FromSerialDate(v); ok {
			t.Fatalf("expected %v to be rejected", v)
		}
	}
}

func TestSerialDateRoundTrip(t *testing.T) {
	for d := 2.0; d < 80000; d += 37 {
		ts, ok := FromSerialDate(d)
		if !ok {
			t.Fatalf("serial %v: expected ok", d)
		}
		if back := ToSerialDate(ts); back != d {
			t.Fatalf("round trip %v -> %v -> %v", d, ts, back)
		}
	}
}

func TestNextMonthStart(t *testing.T) {
	got := NextMonthStart(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected %v", got)
	}
	got = NextMonthStart(time.Date(2024, 12, 15, 13, 0, 0, 0, time.UTC))
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestEpochMillis(t *testing.T) {
	ts := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	if EpochMillis(ts) != ts.Unix()*1000 {
		t.Fatalf("unexpected millis %d", EpochMillis(ts))
	}
}
