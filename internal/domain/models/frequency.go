package models

// Frequency selectors accepted on the wire.
const (
	FrequencyHour  = "hour"
	FrequencyDay   = "day"
	FrequencyMonth = "month"
)

// IsValidFrequency returns true if f is a supported frequency.
func IsValidFrequency(f string) bool {
	switch f {
	case FrequencyHour, FrequencyDay, FrequencyMonth:
		return true
	default:
		return false
	}
}

// DefaultFrequency returns the frequency used when a request omits it.
func DefaultFrequency() string { return FrequencyMonth }

// NormalizeFrequency converts raw string to a valid frequency (or default).
func NormalizeFrequency(s string) string {
	if IsValidFrequency(s) {
		return s
	}
	return DefaultFrequency()
}
