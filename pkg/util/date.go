package util

import (
	"math"
	"time"
)

// SerialEpoch is the anchor of spreadsheet serial dates.
var SerialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// serial 1 is 1900-01-01 and the 1900 leap-year bug adds a phantom day, hence the 2.
const serialOffset = 2

const (
	minSerialDays = -693595 // 0001-01-01
	maxSerialDays = 2958463 // 9999-12-31
)

// FromSerialDate converts a spreadsheet serial date into a UTC calendar day.
// The fractional part is truncated. Returns false for NaN, Inf and values outside years 1..9999.
func FromSerialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	whole := math.Trunc(serial) - serialOffset
	if whole < minSerialDays || whole > maxSerialDays {
		return time.Time{}, false
	}
	return SerialEpoch.AddDate(0, 0, int(whole)), true
}

// ToSerialDate is the inverse of FromSerialDate for midnight timestamps.
func ToSerialDate(t time.Time) float64 {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := (day.Unix() - SerialEpoch.Unix()) / 86400
	return float64(days + serialOffset)
}

// MonthStart returns the first instant of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// NextMonthStart returns the first month start strictly after t.
func NextMonthStart(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// EpochMillis returns t as milliseconds since the Unix epoch.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
