package bdew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

func TestDefaultCachesTables(t *testing.T) {
	first, err := Default()
	require.NoError(t, err)
	second, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTablesSigmoid(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	params, err := tables.Sigmoid(HeatEFH, 5, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.0469278, params.A, 1e-9)
	assert.InDelta(t, -37.1833141, params.B, 1e-9)
	assert.InDelta(t, 5.6727847, params.C, 1e-9)
	assert.InDelta(t, 0.0961931, params.D, 1e-9)

	// wind class 1 shifts the slope coefficients
	windy, err := tables.Sigmoid(HeatEFH, 5, 1)
	require.NoError(t, err)
	assert.Greater(t, windy.A, params.A)
	assert.Less(t, windy.B, params.B)

	gko, err := tables.Sigmoid(HeatGKO, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.4428943, gko.A, 1e-9)

	for _, tc := range []struct {
		name          string
		profile       HeatProfile
		buildingClass int
		windClass     int
	}{
		{"residential without class", HeatEFH, 0, 0},
		{"residential class too high", HeatMFH, 12, 0},
		{"commercial with class", HeatGKO, 3, 0},
		{"unknown wind class", HeatEFH, 5, 2},
		{"unknown profile", HeatProfile("xyz"), 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tables.Sigmoid(tc.profile, tc.buildingClass, tc.windClass)
			assert.ErrorIs(t, err, model.ErrUnknownProfile)
		})
	}
}

func TestTablesWeekdayFactor(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	// residential demand has no weekday rhythm
	for _, day := range calendar.DayCategories() {
		f, err := tables.WeekdayFactor(HeatEFH, day)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, f, 1e-9)
	}

	workday, err := tables.WeekdayFactor(HeatGMK, calendar.DayWorkday)
	require.NoError(t, err)
	sunday, err := tables.WeekdayFactor(HeatGMK, calendar.DaySundayHoliday)
	require.NoError(t, err)
	assert.InDelta(t, 1.0516, workday, 1e-9)
	assert.InDelta(t, 0.7882, sunday, 1e-9)

	_, err = tables.WeekdayFactor(HeatProfile("nope"), calendar.DayWorkday)
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestTablesHourFactorsSumToOne(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for _, profile := range tables.HeatProfiles() {
		for _, season := range calendar.Seasons() {
			for _, day := range calendar.DayCategories() {
				sf, err := tables.HourFactors(profile, season, day)
				require.NoError(t, err, "%s %s %s", profile, season, day)
				assert.InDelta(t, 1.0, floats.Sum(sf[:]), 1e-9, "%s %s %s", profile, season, day)
			}
		}
	}
}

func TestTablesElecShape(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	shape, err := tables.ElecShape(ElecH0, calendar.SeasonWinter, calendar.DayWorkday)
	require.NoError(t, err)
	assert.InDelta(t, 0.72143, shape[0], 1e-9)

	for _, profile := range tables.ElecProfiles() {
		for _, season := range calendar.Seasons() {
			for _, day := range calendar.DayCategories() {
				shape, err := tables.ElecShape(profile, season, day)
				require.NoError(t, err, "%s %s %s", profile, season, day)
				assert.Positive(t, floats.Sum(shape[:]), "%s %s %s", profile, season, day)
			}
		}
	}

	_, err = tables.ElecShape(ElecProfile("x9"), calendar.SeasonWinter, calendar.DayWorkday)
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestTablesMixedProfilesAreWeightedSums(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	for mixed, weights := range mixedElec {
		for _, season := range calendar.Seasons() {
			for _, day := range calendar.DayCategories() {
				got, err := tables.ElecShape(mixed, season, day)
				require.NoError(t, err)

				var want [96]float64
				for part, w := range weights {
					shape, err := tables.ElecShape(part, season, day)
					require.NoError(t, err)
					for i := range want {
						want[i] += w * shape[i]
					}
				}
				for i := range want {
					assert.InDelta(t, want[i], got[i], 1e-12, "%s %s %s q%02d", mixed, season, day, i)
				}
			}
		}
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	tables := &Tables{sigmoid: make(map[sigmoidKey]SigmoidParams)}

	err := tables.loadSigmoid([]byte("profile,building_class\nefh,1\n"))
	assert.Error(t, err)

	err = tables.loadSigmoid([]byte("profile,building_class,wind_class,a,b,c,d\nbogus,1,0,1,1,1,1\n"))
	assert.ErrorIs(t, err, model.ErrUnknownProfile)

	hours := &Tables{hours: make(map[hourKey][24]float64)}
	row := "efh,winter,workday"
	for i := 0; i < 24; i++ {
		row += ",0.5"
	}
	err = hours.loadHours([]byte(hourHeader() + "\n" + row + "\n"))
	assert.ErrorContains(t, err, "sum")
}

func hourHeader() string {
	h := "profile,season,day_category"
	for _, col := range []string{
		"h00", "h01", "h02", "h03", "h04", "h05", "h06", "h07", "h08", "h09", "h10", "h11",
		"h12", "h13", "h14", "h15", "h16", "h17", "h18", "h19", "h20", "h21", "h22", "h23",
	} {
		h += "," + col
	}
	return h
}
