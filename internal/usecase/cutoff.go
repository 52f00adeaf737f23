package usecase

import (
	"errors"
	"time"

	"QlikForecast/internal/domain/models"
	"QlikForecast/pkg/util"
)

// ErrNoActuals is returned when no cutoff is given and no row carries a non-zero measure.
var ErrNoActuals = errors.New("no row carries a non-zero measure to bound the training history")

// ResolveCutoff returns the explicit max_date when set, otherwise the latest timestamp
// with a present, non-zero measure.
func ResolveCutoff(series models.Series, cfg models.BatchConfig) (time.Time, error) {
	if cfg.HasMaxDate() {
		ds, ok := util.FromSerialDate(*cfg.MaxDate)
		if !ok {
			return time.Time{}, &models.ValidationError{Field: "max_date", Message: "max_date is not a valid serial date"}
		}
		return ds, nil
	}

	var cutoff time.Time
	found := false
	for _, p := range series {
		if !p.HasDS || !p.HasActual() {
			continue
		}
		if !found || p.DS.After(cutoff) {
			cutoff = p.DS
			found = true
		}
	}
	if !found {
		return time.Time{}, ErrNoActuals
	}
	return cutoff, nil
}

// Truncate keeps dated rows at or before cutoff, in their original order.
func Truncate(series models.Series, cutoff time.Time) models.Series {
	out := make(models.Series, 0, len(series))
	for _, p := range series {
		if p.HasDS && !p.DS.After(cutoff) {
			out = append(out, p)
		}
	}
	return out
}
