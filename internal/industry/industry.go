// Package industry generates simple industrial step load profiles: a day
// and a night level per weekday, weekend day and holiday, scaled to an
// annual demand.
package industry

import (
	"fmt"
	"time"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// StepFactors holds the two load levels of one day kind.
type StepFactors struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
}

// Config describes one step profile request. Zero-value factors and window
// bounds take the usual defaults: workdays 0.8/0.6, weekends and holidays
// 0.9/0.7, day window 07:00 to 23:30 inclusive.
type Config struct {
	AnnualDemand float64       `json:"annual_demand_kwh"`
	Resolution   time.Duration `json:"resolution"`
	DayStart     time.Duration `json:"day_start"`
	DayEnd       time.Duration `json:"day_end"`
	Week         StepFactors   `json:"week"`
	Weekend      StepFactors   `json:"weekend"`
	Holiday      StepFactors   `json:"holiday"`
}

func (cfg Config) withDefaults() Config {
	if cfg.Resolution == 0 {
		cfg.Resolution = time.Hour
	}
	if cfg.DayStart == 0 {
		cfg.DayStart = 7 * time.Hour
	}
	if cfg.DayEnd == 0 {
		cfg.DayEnd = 23*time.Hour + 30*time.Minute
	}
	if (cfg.Week == StepFactors{}) {
		cfg.Week = StepFactors{Day: 0.8, Night: 0.6}
	}
	if (cfg.Weekend == StepFactors{}) {
		cfg.Weekend = StepFactors{Day: 0.9, Night: 0.7}
	}
	if (cfg.Holiday == StepFactors{}) {
		cfg.Holiday = StepFactors{Day: 0.9, Night: 0.7}
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.AnnualDemand < 0 {
		return fmt.Errorf("annual demand %g must not be negative: %w", cfg.AnnualDemand, model.ErrConfiguration)
	}
	if cfg.Resolution <= 0 || cfg.Resolution > 24*time.Hour || (24*time.Hour)%cfg.Resolution != 0 {
		return fmt.Errorf("resolution %s must divide a day evenly: %w", cfg.Resolution, model.ErrConfiguration)
	}
	if cfg.DayStart < 0 || cfg.DayStart >= 24*time.Hour || cfg.DayEnd < 0 || cfg.DayEnd >= 24*time.Hour {
		return fmt.Errorf("day window bounds must lie within a day: %w", model.ErrConfiguration)
	}
	var sum float64
	for _, f := range []StepFactors{cfg.Week, cfg.Weekend, cfg.Holiday} {
		if f.Day < 0 || f.Night < 0 {
			return fmt.Errorf("step factors must not be negative: %w", model.ErrConfiguration)
		}
		sum += f.Day + f.Night
	}
	if sum == 0 {
		return fmt.Errorf("all step factors are zero: %w", model.ErrConfiguration)
	}
	return nil
}

// Generate computes the step profile for one calendar year. The output sums
// to the annual demand. The default resolution is hourly.
func Generate(year int, holidays *model.HolidaySet, cfg Config) (model.TimeSeries, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return model.TimeSeries{}, err
	}

	start := calendar.YearStart(year)
	days := calendar.DaysInYear(year)
	perDay := int((24 * time.Hour) / cfg.Resolution)

	out := model.NewTimeSeries(start, cfg.Resolution, days*perDay)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		factors := cfg.Week
		switch {
		case holidays.Contains(date):
			factors = cfg.Holiday
		case date.Weekday() == time.Saturday || date.Weekday() == time.Sunday:
			factors = cfg.Weekend
		}
		for i := 0; i < perDay; i++ {
			level := factors.Night
			if inDayWindow(time.Duration(i)*cfg.Resolution, cfg.DayStart, cfg.DayEnd) {
				level = factors.Day
			}
			out.Values[d*perDay+i] = level
		}
	}

	if err := out.ScaleTo(cfg.AnnualDemand); err != nil {
		return model.TimeSeries{}, err
	}
	return out, nil
}

// inDayWindow reports whether the time of day falls into the inclusive day
// window. A start after the end wraps the window around midnight.
func inDayWindow(tod, start, end time.Duration) bool {
	if start <= end {
		return tod >= start && tod <= end
	}
	return tod >= start || tod <= end
}
