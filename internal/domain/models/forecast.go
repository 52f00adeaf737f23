package models

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"time"

	"QlikForecast/pkg/util"
)

// Component is one additive seasonal term of a forecast row.
type Component struct {
	Name  string
	Value float64
	Lower float64
	Upper float64
}

// ForecastRow is one predicted timestamp with every model output column.
type ForecastRow struct {
	DS         time.Time
	Trend      float64
	TrendLower float64
	TrendUpper float64
	YhatLower  float64
	YhatUpper  float64
	Yhat       float64

	Additive      float64
	AdditiveLower float64
	AdditiveUpper float64

	Multiplicative      float64
	MultiplicativeLower float64
	MultiplicativeUpper float64

	Components []Component
}

// Column returns a prediction column by its output name.
func (r ForecastRow) Column(name string) (float64, bool) {
	switch name {
	case ColumnYhat:
		return r.Yhat, true
	case ColumnYhatLower:
		return r.YhatLower, true
	case ColumnYhatUpper:
		return r.YhatUpper, true
	}
	return 0, false
}

type column struct {
	key   string
	value interface{}
}

// MarshalJSON writes columns in the order forecasting tools emit them:
// ds, trend, intervals, component triples sorted by name, yhat.
func (r ForecastRow) MarshalJSON() ([]byte, error) {
	cols := []column{
		{"ds", util.EpochMillis(r.DS)},
		{"trend", jsonFloat(r.Trend)},
		{"yhat_lower", jsonFloat(r.YhatLower)},
		{"yhat_upper", jsonFloat(r.YhatUpper)},
		{"trend_lower", jsonFloat(r.TrendLower)},
		{"trend_upper", jsonFloat(r.TrendUpper)},
	}

	terms := make([]Component, 0, len(r.Components)+2)
	terms = append(terms, r.Components...)
	terms = append(terms,
		Component{Name: "additive_terms", Value: r.Additive, Lower: r.AdditiveLower, Upper: r.AdditiveUpper},
		Component{Name: "multiplicative_terms", Value: r.Multiplicative, Lower: r.MultiplicativeLower, Upper: r.MultiplicativeUpper},
	)
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Name < terms[j].Name })
	for _, t := range terms {
		cols = append(cols,
			column{t.Name, jsonFloat(t.Value)},
			column{t.Name + "_lower", jsonFloat(t.Lower)},
			column{t.Name + "_upper", jsonFloat(t.Upper)},
		)
	}
	cols = append(cols, column{"yhat", jsonFloat(r.Yhat)})

	return writeObject(cols)
}

// ReconciledRow is a single-column record aligned with an input row.
type ReconciledRow struct {
	Column string
	Value  *float64
}

func (r ReconciledRow) MarshalJSON() ([]byte, error) {
	var v interface{}
	if r.Value != nil {
		v = jsonFloat(*r.Value)
	}
	return writeObject([]column{{r.Column, v}})
}

func writeObject(cols []column) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonFloat maps non-finite values to null.
func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
