package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"QlikForecast/pkg/util"
)

// Prediction columns a caller may ask for in reconciled mode.
const (
	ColumnYhat      = "yhat"
	ColumnYhatLower = "yhat_lower"
	ColumnYhatUpper = "yhat_upper"
)

// BatchConfig applies to every row of one request.
type BatchConfig struct {
	MaxDate     *float64 `json:"max_date,omitempty"`
	Frequency   string   `json:"frequency" default:"month" validate:"oneof=hour day month"`
	Periods     int      `json:"periods" default:"12" validate:"gte=1,lte=10000"`
	Changepoint float64  `json:"changepoint" default:"0.05" validate:"gt=0"`
	Yhat        string   `json:"yhat" default:"yhat" validate:"oneof=yhat yhat_lower yhat_upper"`
}

// HasMaxDate reports whether an explicit cutoff was supplied. Zero counts as absent.
func (c BatchConfig) HasMaxDate() bool {
	return c.MaxDate != nil && *c.MaxDate != 0
}

// Observation is one input row as sent by the dashboard.
type Observation struct {
	// Date is nil when the value could not be coerced to a number.
	Date *float64
	// Measure is nil when the row carries no actual.
	Measure *float64

	HasDate    bool
	HasMeasure bool

	config map[string]json.RawMessage
}

// UnmarshalJSON records which keys were present and coerces dates leniently.
func (o *Observation) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return &ValidationError{Message: "each observation must be a JSON object"}
	}

	*o = Observation{config: fields}
	if raw, ok := fields["date"]; ok {
		o.HasDate = true
		if v, ok := coerceNumber(raw); ok {
			o.Date = &v
		}
	}
	if raw, ok := fields["measure"]; ok {
		o.HasMeasure = true
		if !isNull(raw) {
			v, ok := coerceNumber(raw)
			if !ok {
				return &ValidationError{Field: "measure", Message: "measure must be a number or null"}
			}
			o.Measure = &v
		}
	}
	return nil
}

// Config decodes the batch configuration fields carried by this row.
func (o Observation) Config() (BatchConfig, error) {
	return decodeBatchConfig(o.config)
}

// ForecastRequest is a decoded request body.
type ForecastRequest struct {
	Config BatchConfig
	Rows   []Observation
}

type requestEnvelope struct {
	Config json.RawMessage `json:"config"`
	Rows   []Observation   `json:"rows"`
}

// ParseForecastRequest accepts either the dashboard's array of rows, where the first row
// carries the batch configuration, or an object {"config": {...}, "rows": [...]}.
func ParseForecastRequest(body []byte) (*ForecastRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &ValidationError{Message: "request body is empty"}
	}

	switch body[0] {
	case '[':
		var rows []Observation
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, asValidationError(err)
		}
		if len(rows) == 0 {
			return nil, ErrEmptyBatch
		}
		cfg, err := rows[0].Config()
		if err != nil {
			return nil, err
		}
		return &ForecastRequest{Config: cfg, Rows: rows}, nil

	case '{':
		var env requestEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, asValidationError(err)
		}
		if len(env.Rows) == 0 {
			return nil, ErrEmptyBatch
		}
		var fields map[string]json.RawMessage
		if len(env.Config) > 0 && !isNull(env.Config) {
			if err := json.Unmarshal(env.Config, &fields); err != nil {
				return nil, &ValidationError{Field: "config", Message: "config must be a JSON object"}
			}
		}
		cfg, err := decodeBatchConfig(fields)
		if err != nil {
			return nil, err
		}
		return &ForecastRequest{Config: cfg, Rows: env.Rows}, nil
	}

	return nil, &ValidationError{Message: "request body must be a JSON array of observations"}
}

func decodeBatchConfig(fields map[string]json.RawMessage) (BatchConfig, error) {
	var cfg BatchConfig

	if raw, ok := fields["max_date"]; ok && !isNull(raw) {
		v, ok := coerceNumber(raw)
		if !ok {
			return cfg, &ValidationError{Field: "max_date", Message: "max_date must be a number"}
		}
		cfg.MaxDate = &v
	}
	if raw, ok := fields["frequency"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &cfg.Frequency); err != nil {
			return cfg, &ValidationError{Field: "frequency", Message: "frequency must be a string"}
		}
	}
	if raw, ok := fields["periods"]; ok && !isNull(raw) {
		v, ok := coerceNumber(raw)
		if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return cfg, &ValidationError{Field: "periods", Message: "periods must be an integer"}
		}
		cfg.Periods = int(v)
	}
	if raw, ok := fields["changepoint"]; ok && !isNull(raw) {
		v, ok := coerceNumber(raw)
		if !ok {
			return cfg, &ValidationError{Field: "changepoint", Message: "changepoint must be a number"}
		}
		cfg.Changepoint = v
	}
	if raw, ok := fields["yhat"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &cfg.Yhat); err != nil {
			return cfg, &ValidationError{Field: "yhat", Message: "yhat must be a string"}
		}
	}
	return cfg, nil
}

// coerceNumber accepts JSON numbers and numeric strings.
func coerceNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && !isNull(raw) {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := util.ParseFloat(s); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, true
		}
	}
	return 0, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func asValidationError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		return &ValidationError{Message: fmt.Sprintf("malformed JSON at offset %d", serr.Offset)}
	}
	return &ValidationError{Message: err.Error()}
}
