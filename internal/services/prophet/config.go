// Package prophet implements an additive time-series model with the configuration surface
// and output columns of Facebook Prophet. The trend is piecewise linear with changepoints;
// seasonalities are Fourier series; intervals are simulated.
package prophet

// Toggle selects auto detection or forces a seasonality on or off.
type Toggle int

const (
	Auto Toggle = iota
	On
	Off
)

// Config holds model hyper-parameters.
type Config struct {
	NChangepoints         int
	ChangepointRange      float64
	ChangepointPriorScale float64
	SeasonalityPriorScale float64
	IntervalWidth         float64
	UncertaintySamples    int
	Seed                  uint64

	Yearly Toggle
	Weekly Toggle
	Daily  Toggle
}

// Option configures Config.
type Option func(*Config)

// DefaultConfig mirrors Prophet's defaults.
func DefaultConfig() Config {
	return Config{
		NChangepoints:         25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		IntervalWidth:         0.8,
		UncertaintySamples:    1000,
	}
}

// WithChangepoints sets the number of potential changepoints and the share of history they cover.
func WithChangepoints(n int, historyRange float64) Option {
	return func(c *Config) {
		c.NChangepoints = n
		c.ChangepointRange = historyRange
	}
}

// WithChangepointPriorScale sets trend flexibility.
func WithChangepointPriorScale(scale float64) Option {
	return func(c *Config) {
		c.ChangepointPriorScale = scale
	}
}

// WithSeasonalityPriorScale sets the prior scale of seasonal coefficients.
func WithSeasonalityPriorScale(scale float64) Option {
	return func(c *Config) {
		c.SeasonalityPriorScale = scale
	}
}

// WithUncertainty sets interval width and the number of simulated samples. Zero samples
// disables interval estimation; bounds then equal the point estimate.
func WithUncertainty(width float64, samples int) Option {
	return func(c *Config) {
		c.IntervalWidth = width
		c.UncertaintySamples = samples
	}
}

// WithSeed fixes the random source used for interval simulation.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithYearlySeasonality overrides yearly seasonality detection.
func WithYearlySeasonality(t Toggle) Option {
	return func(c *Config) { c.Yearly = t }
}

// WithWeeklySeasonality overrides weekly seasonality detection.
func WithWeeklySeasonality(t Toggle) Option {
	return func(c *Config) { c.Weekly = t }
}

// WithDailySeasonality overrides daily seasonality detection.
func WithDailySeasonality(t Toggle) Option {
	return func(c *Config) { c.Daily = t }
}
