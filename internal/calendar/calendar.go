// Package calendar classifies dates into the day categories and seasons the
// profile tables are keyed by.
package calendar

import (
	"fmt"
	"time"

	"demand_generator/internal/model"
)

// DayCategory groups dates into the three classes the load profile tables
// distinguish.
type DayCategory string

const (
	DayWorkday       DayCategory = "workday"
	DaySaturday      DayCategory = "saturday"
	DaySundayHoliday DayCategory = "sunday_holiday"
)

// ParseDayCategory converts a table key string into a DayCategory.
func ParseDayCategory(s string) (DayCategory, error) {
	switch DayCategory(s) {
	case DayWorkday, DaySaturday, DaySundayHoliday:
		return DayCategory(s), nil
	}
	return "", fmt.Errorf("unknown day category %q: %w", s, model.ErrConfiguration)
}

// DayCategoryOf classifies a date. Holidays count as Sunday regardless of
// their actual weekday.
func DayCategoryOf(date time.Time, holidays *model.HolidaySet) DayCategory {
	if holidays.Contains(date) {
		return DaySundayHoliday
	}
	switch date.Weekday() {
	case time.Saturday:
		return DaySaturday
	case time.Sunday:
		return DaySundayHoliday
	default:
		return DayWorkday
	}
}

// DayCategories lists all day categories.
func DayCategories() []DayCategory {
	return []DayCategory{DayWorkday, DaySaturday, DaySundayHoliday}
}

// Season is the coarse seasonal class of a date.
type Season string

const (
	SeasonWinter     Season = "winter"
	SeasonSummer     Season = "summer"
	SeasonTransition Season = "transition"
)

// Seasons lists all seasons.
func Seasons() []Season {
	return []Season{SeasonWinter, SeasonSummer, SeasonTransition}
}

// ParseSeason converts a table key string into a Season.
func ParseSeason(s string) (Season, error) {
	switch Season(s) {
	case SeasonWinter, SeasonSummer, SeasonTransition:
		return Season(s), nil
	}
	return "", fmt.Errorf("unknown season %q: %w", s, model.ErrConfiguration)
}

// MonthDay is a calendar date without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) ordinal() int {
	return int(md.Month)*100 + md.Day
}

// SeasonRules holds the fixed date ranges that partition a year for the
// electrical and heat profile tables. Winter wraps around the year end.
type SeasonRules struct {
	WinterFrom  MonthDay
	WinterUntil MonthDay
	SummerFrom  MonthDay
	SummerUntil MonthDay
}

// DefaultSeasonRules returns the published season boundaries: winter
// 01.11.-20.03., summer 15.05.-14.09., transition in between.
func DefaultSeasonRules() SeasonRules {
	return SeasonRules{
		WinterFrom:  MonthDay{time.November, 1},
		WinterUntil: MonthDay{time.March, 20},
		SummerFrom:  MonthDay{time.May, 15},
		SummerUntil: MonthDay{time.September, 14},
	}
}

// SeasonOf resolves the season of a date by its month and day.
func (r SeasonRules) SeasonOf(date time.Time) Season {
	o := int(date.Month())*100 + date.Day()
	if o >= r.WinterFrom.ordinal() || o <= r.WinterUntil.ordinal() {
		return SeasonWinter
	}
	if o >= r.SummerFrom.ordinal() && o <= r.SummerUntil.ordinal() {
		return SeasonSummer
	}
	return SeasonTransition
}

// TemperatureThresholds classifies seasons from daily mean temperatures, as
// used by the VDI typical-day selection.
type TemperatureThresholds struct {
	// Summer is the limit above which a day counts as summer.
	Summer float64
	// Winter is the limit below which a day counts as winter.
	Winter float64
}

// DefaultTemperatureThresholds returns the standard limits of 15 °C for
// summer and 5 °C for winter.
func DefaultTemperatureThresholds() TemperatureThresholds {
	return TemperatureThresholds{Summer: 15, Winter: 5}
}

// Classify maps a daily mean temperature to a season. Days at or above the
// winter limit are transition unless they exceed the summer limit.
func (t TemperatureThresholds) Classify(dailyMean float64) Season {
	if dailyMean > t.Summer {
		return SeasonSummer
	}
	if dailyMean < t.Winter {
		return SeasonWinter
	}
	return SeasonTransition
}

// YearStart returns midnight January 1st of the year in UTC. Generated
// profiles are calendar based and ignore time zones.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// IsLeapYear reports whether the year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
