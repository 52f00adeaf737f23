package prophet

import (
	"QlikForecast/internal/domain/models"
	domsvc "QlikForecast/internal/domain/service"
)

// NewFactory returns a ModelFactory that applies base options and then the request spec.
func NewFactory(base ...Option) domsvc.ModelFactory {
	return func(spec models.ModelSpec) (domsvc.ForecastModel, error) {
		opts := append([]Option(nil), base...)
		if spec.ChangepointPriorScale > 0 {
			opts = append(opts, WithChangepointPriorScale(spec.ChangepointPriorScale))
		}
		if spec.WeeklySeasonality != nil {
			t := Off
			if *spec.WeeklySeasonality {
				t = On
			}
			opts = append(opts, WithWeeklySeasonality(t))
		}

		m := New(opts...)
		for _, s := range spec.Seasonalities {
			if err := m.AddSeasonality(s.Name, s.Period, s.FourierOrder); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
}

var _ domsvc.ForecastModel = (*Model)(nil)
