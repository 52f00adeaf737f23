package usecase

import (
	"QlikForecast/internal/domain/models"
	"QlikForecast/pkg/util"
)

// DecodeSeries converts request rows into the canonical series, keeping row order.
// Rows whose date is not numeric stay in place with HasDS unset.
func DecodeSeries(rows []models.Observation) (models.Series, error) {
	if len(rows) == 0 {
		return nil, models.ErrEmptyBatch
	}

	out := make(models.Series, len(rows))
	for i, row := range rows {
		if !row.HasDate {
			return nil, &models.ValidationError{Row: i + 1, Field: "date", Message: "Missing mandatory field 'date'"}
		}
		if !row.HasMeasure {
			return nil, &models.ValidationError{Row: i + 1, Field: "measure", Message: "Missing mandatory field 'measure'"}
		}

		p := models.Point{Y: row.Measure}
		if row.Date != nil {
			if ds, ok := util.FromSerialDate(*row.Date); ok {
				p.DS = ds
				p.HasDS = true
			}
		}
		out[i] = p
	}
	return out, nil
}
