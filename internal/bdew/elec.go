package bdew

import (
	"fmt"
	"time"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// nativeStep is the resolution of the published electrical shape tables.
const nativeStep = 15 * time.Minute

// ElecConfig describes one electrical profile request.
type ElecConfig struct {
	Profile      ElecProfile   `json:"profile"`
	AnnualDemand float64       `json:"annual_demand_kwh"`
	Resolution   time.Duration `json:"resolution"`
	Dynamic      bool          `json:"dynamic"`
}

// ElecEngine generates electrical demand profiles from the quarter-hour
// shape tables. Seasons are fixed calendar ranges, so no weather input is
// needed. It is stateless; one engine may serve concurrent calls.
type ElecEngine struct {
	tables *Tables
}

// NewElecEngine creates an electrical engine reading from the given tables.
func NewElecEngine(t *Tables) *ElecEngine {
	return &ElecEngine{tables: t}
}

// Generate computes the electrical demand series for one calendar year. The
// output sums to the annual demand. The default resolution is the table
// native 15 minutes.
func (e *ElecEngine) Generate(year int, holidays *model.HolidaySet, cfg ElecConfig) (model.TimeSeries, error) {
	if _, err := ParseElecProfile(string(cfg.Profile)); err != nil {
		return model.TimeSeries{}, err
	}
	if cfg.AnnualDemand < 0 {
		return model.TimeSeries{}, fmt.Errorf("annual demand %g must not be negative: %w",
			cfg.AnnualDemand, model.ErrConfiguration)
	}
	if cfg.Dynamic && !cfg.Profile.Household() {
		return model.TimeSeries{}, fmt.Errorf("dynamic correction is only defined for %s, not %s: %w",
			ElecH0, cfg.Profile, model.ErrUnsupportedOption)
	}
	resolution := cfg.Resolution
	if resolution == 0 {
		resolution = nativeStep
	}

	start := calendar.YearStart(year)
	days := calendar.DaysInYear(year)
	rules := e.tables.Seasons()

	out := model.NewTimeSeries(start, nativeStep, days*96)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		shape, err := e.tables.ElecShape(cfg.Profile, rules.SeasonOf(date), calendar.DayCategoryOf(date, holidays))
		if err != nil {
			return model.TimeSeries{}, err
		}
		copy(out.Values[d*96:(d+1)*96], shape[:])
	}

	if cfg.Dynamic {
		applyDynamicCorrection(out.Values)
	}

	out, err := out.Resample(resolution)
	if err != nil {
		return model.TimeSeries{}, err
	}
	// scaling last keeps the annual sum exact despite the correction
	if err := out.ScaleTo(cfg.AnnualDemand); err != nil {
		return model.TimeSeries{}, err
	}
	return out, nil
}

// applyDynamicCorrection multiplies the series by the household dynamisation
// polynomial. Its argument is the day of the year as a decimal number,
// clamped to the published domain of [0, 365].
func applyDynamicCorrection(values []float64) {
	for q := range values {
		t := float64(q+1) / 96
		if t > 365 {
			t = 365
		}
		f := (((-3.916649251e-10*t+3.2e-7)*t-7.02e-5)*t+2.1e-3)*t + 1.24
		values[q] *= f
	}
}
