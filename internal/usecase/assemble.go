package usecase

import (
	"fmt"
	"time"

	"QlikForecast/internal/domain/models"
)

type instant struct {
	sec  int64
	nsec int
}

func instantOf(t time.Time) instant {
	return instant{sec: t.Unix(), nsec: t.Nanosecond()}
}

// Reconcile aligns forecast values with the input rows. A present, non-zero actual wins;
// otherwise the selected column of the forecast row with the same timestamp is used, and
// rows without a matching forecast get null.
func Reconcile(series models.Series, forecast []models.ForecastRow, column string) ([]models.ReconciledRow, error) {
	if _, ok := (models.ForecastRow{}).Column(column); !ok {
		return nil, &models.ValidationError{Field: "yhat", Message: fmt.Sprintf("unknown forecast column %q", column)}
	}

	byTime := make(map[instant]float64, len(forecast))
	for _, r := range forecast {
		key := instantOf(r.DS)
		if _, seen := byTime[key]; seen {
			continue
		}
		v, _ := r.Column(column)
		byTime[key] = v
	}

	out := make([]models.ReconciledRow, len(series))
	for i, p := range series {
		row := models.ReconciledRow{Column: column}
		switch {
		case p.HasActual():
			v := *p.Y
			row.Value = &v
		case p.HasDS:
			if v, ok := byTime[instantOf(p.DS)]; ok {
				row.Value = &v
			}
		}
		out[i] = row
	}
	return out, nil
}
