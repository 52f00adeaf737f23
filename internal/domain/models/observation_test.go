package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseLegacyArrayTakesConfigFromFirstRow(t *testing.T) {
	body := `[
		{"date": 45292, "measure": 10, "frequency": "day", "periods": 5, "changepoint": 0.2, "yhat": "yhat_lower", "max_date": 45300},
		{"date": "45293", "measure": "11.5", "frequency": "hour", "periods": 99},
		{"date": "n/a", "measure": null}
	]`
	req, err := ParseForecastRequest([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := req.Config
	if c.Frequency != FrequencyDay || c.Periods != 5 || c.Changepoint != 0.2 || c.Yhat != ColumnYhatLower {
		t.Fatalf("unexpected config %+v", c)
	}
	if !c.HasMaxDate() || *c.MaxDate != 45300 {
		t.Fatalf("expected max_date 45300")
	}
	if len(req.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(req.Rows))
	}
	if *req.Rows[1].Date != 45293 || *req.Rows[1].Measure != 11.5 {
		t.Fatalf("numeric strings must be coerced: %+v", req.Rows[1])
	}
	if !req.Rows[2].HasDate || req.Rows[2].Date != nil || !req.Rows[2].HasMeasure || req.Rows[2].Measure != nil {
		t.Fatalf("unexpected third row %+v", req.Rows[2])
	}
}

func TestParseEnvelope(t *testing.T) {
	body := `{"config": {"periods": 4}, "rows": [{"date": 1, "measure": 2}]}`
	req, err := ParseForecastRequest([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Config.Periods != 4 || req.Config.Frequency != "" || len(req.Rows) != 1 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":              ``,
		"empty list":         `[]`,
		"scalar":             `42`,
		"row not object":     `[1, 2]`,
		"measure is bool":    `[{"date": 1, "measure": true}]`,
		"measure is text":    `[{"date": 1, "measure": "abc"}]`,
		"fractional periods": `[{"date": 1, "measure": 1, "periods": 2.5}]`,
		"max_date is text":   `[{"date": 1, "measure": 1, "max_date": "soon"}]`,
		"envelope no rows":   `{"config": {}}`,
		"config not object":  `{"config": [1], "rows": [{"date": 1, "measure": 1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseForecastRequest([]byte(body))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestMissingKeysAreRecorded(t *testing.T) {
	var o Observation
	if err := json.Unmarshal([]byte(`{"date": 5}`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !o.HasDate || o.HasMeasure {
		t.Fatalf("unexpected presence flags %+v", o)
	}
}

func TestHasMaxDateTreatsZeroAsAbsent(t *testing.T) {
	zero := 0.0
	if (BatchConfig{MaxDate: &zero}).HasMaxDate() {
		t.Fatalf("zero max_date must count as absent")
	}
	if (BatchConfig{}).HasMaxDate() {
		t.Fatalf("nil max_date must count as absent")
	}
}

func TestForecastRowJSON(t *testing.T) {
	row := ForecastRow{
		DS:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Trend:      1,
		Yhat:       2,
		Components: []Component{{Name: "monthly", Value: 0.5, Lower: 0.5, Upper: 0.5}},
	}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ds":1704067200000,"trend":1,"yhat_lower":0,"yhat_upper":0,"trend_lower":0,"trend_upper":0,` +
		`"additive_terms":0,"additive_terms_lower":0,"additive_terms_upper":0,` +
		`"monthly":0.5,"monthly_lower":0.5,"monthly_upper":0.5,` +
		`"multiplicative_terms":0,"multiplicative_terms_lower":0,"multiplicative_terms_upper":0,"yhat":2}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}
