package vdi

import (
	"fmt"
	"time"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// nativeStep is the resolution of the typical-day curves.
const nativeStep = 15 * time.Minute

// cloudyThreshold splits clear from covered days, in okta.
const cloudyThreshold = 5.0

// averageDays is the denominator of the daily demand formula. The norm
// fixes it at 365 even in leap years; the final normalization absorbs the
// difference.
const averageDays = 365.0

// HouseDemand bundles the three energy series of one house.
type HouseDemand struct {
	House House
	Heat  model.TimeSeries
	Elec  model.TimeSeries
	DHW   model.TimeSeries
}

// Total returns the combined heat, electricity and hot water series.
func (d HouseDemand) Total() (model.TimeSeries, error) {
	total, err := d.Heat.Add(d.Elec)
	if err != nil {
		return model.TimeSeries{}, err
	}
	return total.Add(d.DHW)
}

// Result holds the demand of every house plus the region total across all
// houses and energies.
type Result struct {
	Houses []HouseDemand
	Total  model.TimeSeries
}

// Region generates typical-day demand profiles for a set of houses sharing
// one weather record. It is stateless; one region may serve concurrent
// calls.
type Region struct {
	tables *Tables
}

// NewRegion creates a region engine reading from the given tables.
func NewRegion(t *Tables) *Region {
	return &Region{tables: t}
}

// Generate computes heat, electricity and hot water series for one calendar
// year and every house. Each energy of each house sums to its annual
// demand. The weather must cover the whole year and include cloud cover.
// The default resolution is hourly.
func (r *Region) Generate(year int, weather model.WeatherSeries, holidays *model.HolidaySet, houses []House, resolution time.Duration) (Result, error) {
	if len(houses) == 0 {
		return Result{}, fmt.Errorf("no houses given: %w", model.ErrConfiguration)
	}
	for _, h := range houses {
		if err := h.Validate(); err != nil {
			return Result{}, err
		}
	}
	if resolution == 0 {
		resolution = time.Hour
	}

	start := calendar.YearStart(year)
	days := calendar.DaysInYear(year)

	temps, err := weather.DailyMeanTemperature(start, days)
	if err != nil {
		return Result{}, err
	}
	if !weather.HasCloudCover() {
		return Result{}, fmt.Errorf("typical day classification needs cloud cover: %w", model.ErrInsufficientData)
	}
	clouds, err := weather.DailyMeanCloudCover(start, days)
	if err != nil {
		return Result{}, err
	}

	// day typing is shared between houses with the same season split
	typesByLimit := make(map[calendar.TemperatureThresholds][]DayType)
	classify := func(limits calendar.TemperatureThresholds) []DayType {
		if types, ok := typesByLimit[limits]; ok {
			return types
		}
		types := make([]DayType, days)
		for d := 0; d < days; d++ {
			date := start.AddDate(0, 0, d)
			season := limits.Classify(temps[d])
			sunday := calendar.DayCategoryOf(date, holidays) == calendar.DaySundayHoliday
			types[d] = NewDayType(season, sunday, clouds[d] >= cloudyThreshold)
		}
		typesByLimit[limits] = types
		return types
	}

	result := Result{Houses: make([]HouseDemand, 0, len(houses))}
	for _, house := range houses {
		demand, err := r.houseDemand(house, classify(house.thresholds()), start, resolution)
		if err != nil {
			return Result{}, fmt.Errorf("house %s: %w", house.Name, err)
		}
		result.Houses = append(result.Houses, demand)
	}

	total := model.NewTimeSeries(start, resolution, result.Houses[0].Heat.Len())
	for _, demand := range result.Houses {
		for _, series := range []model.TimeSeries{demand.Heat, demand.Elec, demand.DHW} {
			total, err = total.Add(series)
			if err != nil {
				return Result{}, err
			}
		}
	}
	result.Total = total
	return result, nil
}

func (r *Region) houseDemand(house House, types []DayType, start time.Time, resolution time.Duration) (HouseDemand, error) {
	days := len(types)
	heatDaily := make([]float64, days)
	elecDaily := make([]float64, days)
	dhwDaily := make([]float64, days)
	n := house.scale()

	for d, dt := range types {
		f, err := r.tables.Factors(house.Type, dt)
		if err != nil {
			return HouseDemand{}, err
		}
		heatDaily[d] = house.AnnualHeat * f.Heat
		elecDaily[d] = dailyShare(house.AnnualElec, n, f.Elec)
		dhwDaily[d] = dailyShare(house.AnnualDHW, n, f.DHW)
	}

	demand := HouseDemand{House: house}
	for _, curve := range []struct {
		energy EnergyKind
		daily  []float64
		annual float64
		out    *model.TimeSeries
	}{
		{EnergyHeat, heatDaily, house.AnnualHeat, &demand.Heat},
		{EnergyElec, elecDaily, house.AnnualElec, &demand.Elec},
		{EnergyDHW, dhwDaily, house.AnnualDHW, &demand.DHW},
	} {
		series, err := r.expand(house.Type, curve.energy, types, curve.daily, start)
		if err != nil {
			return HouseDemand{}, err
		}
		// typical days do not add up to the annual demand on their own
		if series.Sum() > 0 {
			if err := series.ScaleTo(curve.annual); err != nil {
				return HouseDemand{}, err
			}
		}
		series, err = series.Resample(resolution)
		if err != nil {
			return HouseDemand{}, err
		}
		*curve.out = series
	}
	return demand, nil
}

// expand spreads the daily energies over the quarter-hour typical-day
// curves.
func (r *Region) expand(house HouseType, energy EnergyKind, types []DayType, daily []float64, start time.Time) (model.TimeSeries, error) {
	out := model.NewTimeSeries(start, nativeStep, len(types)*96)
	for d, dt := range types {
		shape, err := r.tables.Shape(house, dt, energy)
		if err != nil {
			return model.TimeSeries{}, err
		}
		for q := 0; q < 96; q++ {
			out.Values[d*96+q] = daily[d] * shape[q]
		}
	}
	return out, nil
}

// dailyShare applies the 1/365 average plus the scaled deviation. A day
// driven negative falls back to the plain average (VDI 4655 p. 16).
func dailyShare(annual, n, factor float64) float64 {
	v := annual * (1/averageDays + n*factor)
	if v < 0 {
		return annual / averageDays
	}
	return v
}
