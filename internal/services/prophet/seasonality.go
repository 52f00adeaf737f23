package prophet

import (
	"fmt"
	"math"
	"time"
)

const secondsPerDay = 86400.0

type seasonality struct {
	name       string
	period     float64 // days
	order      int
	priorScale float64
}

type builtin struct {
	name   string
	period float64
	order  int
	// minSpan is the shortest history, in days, that enables the term.
	minSpan float64
	// maxSpacing disables the term when observations are this far apart or more.
	maxSpacing float64
}

var builtins = []builtin{
	{name: "yearly", period: 365.25, order: 10, minSpan: 730, maxSpacing: math.Inf(1)},
	{name: "weekly", period: 7, order: 3, minSpan: 14, maxSpacing: 7},
	{name: "daily", period: 1, order: 4, minSpan: 2, maxSpacing: 1},
}

// AddSeasonality registers a custom Fourier component. It must be called before Fit.
func (m *Model) AddSeasonality(name string, period float64, order int) error {
	if m.fitted {
		return &ModelError{Op: "add_seasonality", Msg: name, Err: ErrAlreadyFitted}
	}
	if name == "" || period <= 0 || order <= 0 {
		return newError("add_seasonality", fmt.Sprintf("invalid seasonality %q: period and order must be positive", name))
	}
	for _, s := range m.custom {
		if s.name == name {
			return newError("add_seasonality", fmt.Sprintf("seasonality %q already added", name))
		}
	}
	m.custom = append(m.custom, seasonality{
		name:       name,
		period:     period,
		order:      order,
		priorScale: m.cfg.SeasonalityPriorScale,
	})
	return nil
}

// resolveSeasonalities applies auto detection given the history span and the smallest
// non-zero spacing between observations, both in days.
func (m *Model) resolveSeasonalities(spanDays, minSpacingDays float64) []seasonality {
	out := make([]seasonality, 0, len(builtins)+len(m.custom))
	out = append(out, m.custom...)

	for _, b := range builtins {
		if m.hasCustom(b.name) {
			continue
		}
		enabled := false
		switch m.toggle(b.name) {
		case On:
			enabled = true
		case Auto:
			enabled = spanDays >= b.minSpan && minSpacingDays < b.maxSpacing
		}
		if enabled {
			out = append(out, seasonality{
				name:       b.name,
				period:     b.period,
				order:      b.order,
				priorScale: m.cfg.SeasonalityPriorScale,
			})
		}
	}
	return out
}

func (m *Model) hasCustom(name string) bool {
	for _, s := range m.custom {
		if s.name == name {
			return true
		}
	}
	return false
}

func (m *Model) toggle(name string) Toggle {
	switch name {
	case "yearly":
		return m.cfg.Yearly
	case "weekly":
		return m.cfg.Weekly
	case "daily":
		return m.cfg.Daily
	}
	return Off
}

// fourier returns sin/cos pairs for orders 1..order at time ds, ordered sin1, cos1, sin2, ...
func fourier(ds time.Time, period float64, order int) []float64 {
	t := float64(ds.Unix())/secondsPerDay + float64(ds.Nanosecond())/1e9/secondsPerDay
	out := make([]float64, 0, 2*order)
	for i := 1; i <= order; i++ {
		x := 2 * math.Pi * float64(i) * t / period
		out = append(out, math.Sin(x), math.Cos(x))
	}
	return out
}
