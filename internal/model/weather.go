package model

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WeatherSeries bundles externally supplied weather input. Temperature (°C) is
// required by the heat and VDI engines; CloudCover (okta, 0-8) only by the
// VDI engine.
type WeatherSeries struct {
	Temperature TimeSeries
	CloudCover  TimeSeries
}

// HasCloudCover reports whether cloud cover data is present.
func (w WeatherSeries) HasCloudCover() bool {
	return len(w.CloudCover.Values) > 0
}

// DailyMeanTemperature averages the temperature series into one value per day
// for `days` days starting at `start` (midnight expected).
func (w WeatherSeries) DailyMeanTemperature(start time.Time, days int) ([]float64, error) {
	means, err := dailyMeans(w.Temperature, start, days)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	return means, nil
}

// DailyMeanCloudCover averages the cloud cover series into one value per day.
func (w WeatherSeries) DailyMeanCloudCover(start time.Time, days int) ([]float64, error) {
	if !w.HasCloudCover() {
		return nil, fmt.Errorf("cloud cover: no data: %w", ErrInsufficientData)
	}
	means, err := dailyMeans(w.CloudCover, start, days)
	if err != nil {
		return nil, fmt.Errorf("cloud cover: %w", err)
	}
	return means, nil
}

func dailyMeans(ts TimeSeries, start time.Time, days int) ([]float64, error) {
	if len(ts.Values) == 0 {
		return nil, fmt.Errorf("no data: %w", ErrInsufficientData)
	}
	if ts.Step > 24*time.Hour || (24*time.Hour)%ts.Step != 0 {
		return nil, fmt.Errorf("step %v does not divide a day: %w", ts.Step, ErrConfiguration)
	}

	end := start.Add(time.Duration(days) * 24 * time.Hour)
	if start.Before(ts.Start) || end.After(ts.End()) {
		return nil, fmt.Errorf("range %s to %s not covered by %s to %s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"),
			ts.Start.Format("2006-01-02"), ts.End().Format("2006-01-02"),
			ErrInsufficientData)
	}
	offset := start.Sub(ts.Start)
	if offset%ts.Step != 0 {
		return nil, fmt.Errorf("start %s not aligned to series step %v: %w", start, ts.Step, ErrConfiguration)
	}

	perDay := int((24 * time.Hour) / ts.Step)
	base := int(offset / ts.Step)

	means := make([]float64, days)
	for d := 0; d < days; d++ {
		window := ts.Values[base+d*perDay : base+(d+1)*perDay]
		means[d] = stat.Mean(window, nil)
	}
	return means, nil
}
