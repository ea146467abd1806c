package bdew

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// sigmoidAsymptote is the reference temperature of the h-value sigmoid in
// °C. The model is undefined at and above it.
const sigmoidAsymptote = 40.0

// smoothingWeights is the geometric series used for the reference
// temperature. Day t gets T_t weighted 1, T_t-1 weighted 0.5 and so on.
var smoothingWeights = [4]float64{1, 0.5, 0.25, 0.125}

// HeatConfig describes one heat profile request.
type HeatConfig struct {
	Profile       HeatProfile   `json:"profile"`
	BuildingClass int           `json:"building_class"`
	WindClass     int           `json:"wind_class"`
	HotWater      bool          `json:"hot_water"`
	AnnualDemand  float64       `json:"annual_demand_kwh"`
	Resolution    time.Duration `json:"resolution"`
}

// HeatEngine generates heat demand profiles following the BDEW h-value
// method. It is stateless; one engine may serve concurrent calls.
type HeatEngine struct {
	tables *Tables
}

// NewHeatEngine creates a heat engine reading from the given tables.
func NewHeatEngine(t *Tables) *HeatEngine {
	return &HeatEngine{tables: t}
}

// Generate computes the heat demand series for one calendar year. The
// weather series must cover the whole year; the output sums to the annual
// demand. The default resolution is hourly.
func (e *HeatEngine) Generate(year int, weather model.WeatherSeries, holidays *model.HolidaySet, cfg HeatConfig) (model.TimeSeries, error) {
	if err := validateHeatConfig(cfg); err != nil {
		return model.TimeSeries{}, err
	}
	resolution := cfg.Resolution
	if resolution == 0 {
		resolution = time.Hour
	}

	params, err := e.tables.Sigmoid(cfg.Profile, cfg.BuildingClass, cfg.WindClass)
	if err != nil {
		return model.TimeSeries{}, err
	}
	if !cfg.HotWater {
		// without domestic hot water the summer base load vanishes
		params.D = 0
	}

	start := calendar.YearStart(year)
	days := calendar.DaysInYear(year)

	daily, err := weather.DailyMeanTemperature(start, days)
	if err != nil {
		return model.TimeSeries{}, err
	}
	smoothed := SmoothTemperature(daily)

	dayEnergy := make([]float64, days)
	for d := 0; d < days; d++ {
		h, err := params.HValue(smoothed[d])
		if err != nil {
			return model.TimeSeries{}, fmt.Errorf("day %d: %w", d+1, err)
		}
		date := start.AddDate(0, 0, d)
		f, err := e.tables.WeekdayFactor(cfg.Profile, calendar.DayCategoryOf(date, holidays))
		if err != nil {
			return model.TimeSeries{}, err
		}
		dayEnergy[d] = h * f
	}

	// the customer value scales the h-value series to the annual demand
	total := floats.Sum(dayEnergy)
	if total <= 0 {
		return model.TimeSeries{}, fmt.Errorf("degenerate h-value series: %w", model.ErrDomain)
	}
	floats.Scale(cfg.AnnualDemand/total, dayEnergy)

	// disaggregate each day with the intraday weights
	out := model.NewTimeSeries(start, time.Hour, days*24)
	rules := e.tables.Seasons()
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		sf, err := e.tables.HourFactors(cfg.Profile, rules.SeasonOf(date), calendar.DayCategoryOf(date, holidays))
		if err != nil {
			return model.TimeSeries{}, err
		}
		for hr := 0; hr < 24; hr++ {
			out.Values[d*24+hr] = dayEnergy[d] * sf[hr]
		}
	}

	out, err = out.Resample(resolution)
	if err != nil {
		return model.TimeSeries{}, err
	}
	if err := out.ScaleTo(cfg.AnnualDemand); err != nil {
		return model.TimeSeries{}, err
	}
	return out, nil
}

func validateHeatConfig(cfg HeatConfig) error {
	if _, err := ParseHeatProfile(string(cfg.Profile)); err != nil {
		return err
	}
	if cfg.AnnualDemand < 0 {
		return fmt.Errorf("annual demand %g must not be negative: %w", cfg.AnnualDemand, model.ErrConfiguration)
	}
	if cfg.Profile.Residential() {
		if cfg.BuildingClass < 1 || cfg.BuildingClass > 11 {
			return fmt.Errorf("building class %d outside [1,11] for %s: %w",
				cfg.BuildingClass, cfg.Profile, model.ErrConfiguration)
		}
	} else if cfg.BuildingClass != 0 {
		return fmt.Errorf("building class %d invalid for non-residential %s: %w",
			cfg.BuildingClass, cfg.Profile, model.ErrConfiguration)
	}
	if cfg.WindClass != 0 && cfg.WindClass != 1 {
		return fmt.Errorf("wind class %d must be 0 or 1: %w", cfg.WindClass, model.ErrConfiguration)
	}
	return nil
}

// SmoothTemperature applies the geometric-series smoothing to daily mean
// temperatures. The first days of a series have no history, so their
// weights are renormalized over the days that exist.
func SmoothTemperature(daily []float64) []float64 {
	out := make([]float64, len(daily))
	for d := range daily {
		var num, den float64
		for k := 0; k < len(smoothingWeights) && k <= d; k++ {
			num += smoothingWeights[k] * daily[d-k]
			den += smoothingWeights[k]
		}
		out[d] = num / den
	}
	return out
}

// HValue computes the sigmoid heat demand intensity at the smoothed
// temperature theta.
func (p SigmoidParams) HValue(theta float64) (float64, error) {
	if theta >= sigmoidAsymptote {
		return 0, fmt.Errorf("smoothed temperature %.2f °C at or above the %g °C asymptote: %w",
			theta, sigmoidAsymptote, model.ErrDomain)
	}
	return p.A/(1+math.Pow(p.B/(theta-sigmoidAsymptote), p.C)) + p.D, nil
}
