package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"QlikForecast/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host                 string        `yaml:"host" default:"0.0.0.0"`
		Port                 int           `yaml:"port" default:"8000" validate:"gte=1,lte=65535"`
		ReadTimeout          time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout         time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout      time.Duration `yaml:"shutdown_timeout" default:"10s"`
		BodyLimit            string        `yaml:"body_limit" default:"16M" validate:"required"`
		CORS                 bool          `yaml:"cors" default:"true"`
		SlowRequestThreshold time.Duration `yaml:"slow_request_threshold" default:"5s"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Forecast struct {
		UncertaintySamples    int     `yaml:"uncertainty_samples" default:"1000" validate:"gte=0,lte=100000"`
		IntervalWidth         float64 `yaml:"interval_width" default:"0.8" validate:"gt=0,lt=1"`
		NChangepoints         int     `yaml:"n_changepoints" default:"25" validate:"gte=0"`
		ChangepointRange      float64 `yaml:"changepoint_range" default:"0.8" validate:"gt=0,lte=1"`
		SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale" default:"10" validate:"gt=0"`
		Seed                  uint64  `yaml:"seed"`
	} `yaml:"forecast"`
}

var validate = validator.New()

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if any), the YAML file and then applies environment overrides.
// A missing YAML file falls back to defaults.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logger.Format = strings.ToLower(v)
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed '%s' (got '%v')", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got '%s'", c.Metrics.Path)
	}
	return nil
}
