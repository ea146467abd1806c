package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demand_generator/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayCategoryOf(t *testing.T) {
	// 2023-01-02 is a Monday
	assert.Equal(t, DayWorkday, DayCategoryOf(date(2023, 1, 2), nil))
	assert.Equal(t, DaySaturday, DayCategoryOf(date(2023, 1, 7), nil))
	assert.Equal(t, DaySundayHoliday, DayCategoryOf(date(2023, 1, 8), nil))
}

func TestDayCategoryOf_HolidayOverridesWeekday(t *testing.T) {
	// 2023-10-03 is a Tuesday
	unityDay := date(2023, 10, 3)
	holidays := model.NewHolidaySet(unityDay)

	assert.Equal(t, DayWorkday, DayCategoryOf(unityDay, nil))
	assert.Equal(t, DaySundayHoliday, DayCategoryOf(unityDay, holidays))

	// a holiday on a Saturday also maps to sunday_holiday
	saturday := date(2023, 1, 7)
	holidays.Add(saturday, "test")
	assert.Equal(t, DaySundayHoliday, DayCategoryOf(saturday, holidays))
}

func TestParseDayCategory(t *testing.T) {
	dc, err := ParseDayCategory("saturday")
	require.NoError(t, err)
	assert.Equal(t, DaySaturday, dc)

	_, err = ParseDayCategory("friday")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestSeasonRules_SeasonOf(t *testing.T) {
	rules := DefaultSeasonRules()

	cases := []struct {
		day  time.Time
		want Season
	}{
		{date(2023, 1, 15), SeasonWinter},
		{date(2023, 3, 20), SeasonWinter},
		{date(2023, 3, 21), SeasonTransition},
		{date(2023, 5, 14), SeasonTransition},
		{date(2023, 5, 15), SeasonSummer},
		{date(2023, 7, 1), SeasonSummer},
		{date(2023, 9, 14), SeasonSummer},
		{date(2023, 9, 15), SeasonTransition},
		{date(2023, 10, 31), SeasonTransition},
		{date(2023, 11, 1), SeasonWinter},
		{date(2023, 12, 31), SeasonWinter},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rules.SeasonOf(c.day), "date %s", c.day.Format("2006-01-02"))
	}
}

func TestTemperatureThresholds_Classify(t *testing.T) {
	th := DefaultTemperatureThresholds()

	assert.Equal(t, SeasonWinter, th.Classify(-3))
	assert.Equal(t, SeasonWinter, th.Classify(4.99))
	assert.Equal(t, SeasonTransition, th.Classify(5))
	assert.Equal(t, SeasonTransition, th.Classify(15))
	assert.Equal(t, SeasonSummer, th.Classify(15.01))
}

func TestYearHelpers(t *testing.T) {
	assert.Equal(t, 365, DaysInYear(2023))
	assert.Equal(t, 366, DaysInYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.Equal(t, date(2023, 1, 1), YearStart(2023))
}
