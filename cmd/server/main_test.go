package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("DEMAND_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", envOr("DEMAND_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", envOr("DEMAND_TEST_MISSING", "fallback"))
}

func TestEnvOrInt(t *testing.T) {
	t.Setenv("DEMAND_TEST_YEAR", "2023")
	assert.Equal(t, 2023, envOrInt("DEMAND_TEST_YEAR", 2000))

	t.Setenv("DEMAND_TEST_BAD", "not-a-number")
	assert.Equal(t, 2000, envOrInt("DEMAND_TEST_BAD", 2000))

	assert.Equal(t, 2000, envOrInt("DEMAND_TEST_MISSING", 2000))
}

func TestLoadWeather_EmptyPath(t *testing.T) {
	weather, err := loadWeather("", "csv", 0)
	require.NoError(t, err)
	assert.Zero(t, weather.Temperature.Len())
}

func TestLoadWeather_UnknownFormat(t *testing.T) {
	_, err := loadWeather("somefile.dat", "grib", 0)
	assert.ErrorContains(t, err, "grib")
}

func TestLoadWeather_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	data := "timestamp,temperature,cloud_cover\n" +
		"2023-01-01T00:00:00Z,2.5,8\n" +
		"2023-01-01T01:00:00Z,2.1,7\n" +
		"2023-01-01T02:00:00Z,1.8,7\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	weather, err := loadWeather(path, "csv", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, weather.Temperature.Len())
	assert.True(t, weather.HasCloudCover())
}

func TestLoadHolidays_EmptyPath(t *testing.T) {
	set, err := loadHolidays("")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoadHolidays_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.csv")
	data := "date,label\n2023-01-01,New Year\n2023-10-03,German Unity Day\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	set, err := loadHolidays(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}
