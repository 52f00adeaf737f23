package models

import "time"

// Point is one row of the canonical series.
type Point struct {
	DS    time.Time
	HasDS bool     // false when the input date was not numeric
	Y     *float64 // nil when no actual is known
}

// HasActual reports whether the point carries a present, non-zero value.
func (p Point) HasActual() bool {
	return p.Y != nil && *p.Y != 0
}

// Series keeps the caller's row order.
type Series []Point

// Seasonality describes a Fourier seasonal component.
type Seasonality struct {
	Name         string
	Period       float64 // days
	FourierOrder int
}

// ModelSpec is the per-request model configuration.
type ModelSpec struct {
	ChangepointPriorScale float64
	// WeeklySeasonality overrides auto detection when non-nil.
	WeeklySeasonality *bool
	Seasonalities     []Seasonality
}
