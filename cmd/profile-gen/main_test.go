package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demand_generator/internal/bdew"
	"demand_generator/internal/generator"
	"demand_generator/internal/model"
	"demand_generator/internal/vdi"
)

const scenarioYAML = `year: 2023
resolution_minutes: 60
weather:
  file: weather.csv
  format: csv
holidays: holidays.csv
electrical:
  - name: households
    profile: h0
    annual_demand_kwh: 3500
    dynamic: true
heat:
  - name: old_building
    profile: efh
    building_class: 5
    hot_water: true
    annual_demand_kwh: 18000
industrial:
  - name: plant
    annual_demand_kwh: 250000
    week:
      day: 0.9
      night: 0.5
houses:
  - name: efh_1
    house_type: efh
    occupants: 4
    annual_heat_kwh: 6000
    annual_elec_kwh: 1500
    annual_dhw_kwh: 5250
`

func writeScenario(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func testGenerator(t *testing.T) *generator.Generator {
	t.Helper()
	bdewTables, err := bdew.Default()
	require.NoError(t, err)
	vdiTables, err := vdi.Default()
	require.NoError(t, err)
	return generator.New(bdewTables, vdiTables, model.WeatherSeries{}, nil)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLoadScenario(t *testing.T) {
	sc, err := loadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, 2023, sc.Year)
	assert.Equal(t, 60, sc.ResolutionMinutes)
	assert.Equal(t, "weather.csv", sc.Weather.File)
	assert.Equal(t, "csv", sc.Weather.Format)
	assert.Equal(t, "holidays.csv", sc.Holidays)

	require.Len(t, sc.Electrical, 1)
	assert.Equal(t, "households", sc.Electrical[0].Name)
	assert.Equal(t, "h0", sc.Electrical[0].Profile)
	assert.True(t, sc.Electrical[0].Dynamic)

	require.Len(t, sc.Heat, 1)
	assert.Equal(t, 5, sc.Heat[0].BuildingClass)
	assert.True(t, sc.Heat[0].HotWater)

	require.Len(t, sc.Industrial, 1)
	require.NotNil(t, sc.Industrial[0].Week)
	assert.Equal(t, 0.9, sc.Industrial[0].Week.Day)
	assert.Nil(t, sc.Industrial[0].Weekend)

	require.Len(t, sc.Houses, 1)
	assert.Equal(t, 4, sc.Houses[0].Occupants)
	assert.Equal(t, 5250.0, sc.Houses[0].AnnualDHW)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := loadScenario(writeScenario(t, "year: 2023\nresolutio: 60\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolutio")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateScenario(t *testing.T) {
	err := validateScenario(scenario{Year: 0})
	assert.ErrorContains(t, err, "positive")

	err = validateScenario(scenario{
		Year:       2023,
		Electrical: []electricalEntry{{Profile: "h0"}},
	})
	assert.ErrorContains(t, err, "needs a name")

	err = validateScenario(scenario{
		Year:       2023,
		Electrical: []electricalEntry{{Name: "a", Profile: "h0"}},
		Industrial: []industrialEntry{{Name: "a"}},
	})
	assert.ErrorContains(t, err, "duplicate")

	err = validateScenario(scenario{
		Year:       2023,
		Electrical: []electricalEntry{{Name: "a", Profile: "h0"}},
		Houses:     []vdiHouseEntry{{Name: "b"}},
	})
	assert.NoError(t, err)
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	sc := scenario{
		Year:              2023,
		ResolutionMinutes: 60,
		Electrical:        []electricalEntry{{Name: "households", Profile: "h0", AnnualDemandKWh: 3000}},
		Industrial:        []industrialEntry{{Name: "plant", AnnualDemandKWh: 50000}},
	}

	written, err := generateAll(testGenerator(t), sc, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	rows := readCSV(t, filepath.Join(dir, "households.csv"))
	require.Len(t, rows, 8761)
	assert.Equal(t, []string{"timestamp", "energy_kwh"}, rows[0])
	assert.Equal(t, "2023-01-01T00:00:00Z", rows[1][0])

	total := 0.0
	for _, row := range rows[1:] {
		v, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		total += v
	}
	assert.InDelta(t, 3000, total, 1e-6)

	plant := readCSV(t, filepath.Join(dir, "plant.csv"))
	assert.Len(t, plant, 8761)
}

func TestGenerateAll_HeatNeedsWeather(t *testing.T) {
	sc := scenario{
		Year: 2023,
		Heat: []heatEntry{{Name: "h", Profile: "efh", BuildingClass: 5, AnnualDemandKWh: 1000}},
	}

	_, err := generateAll(testGenerator(t), sc, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestGenerateAll_UnknownProfile(t *testing.T) {
	sc := scenario{
		Year:       2023,
		Electrical: []electricalEntry{{Name: "x", Profile: "x9", AnnualDemandKWh: 1000}},
	}

	_, err := generateAll(testGenerator(t), sc, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestWriteSeriesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ts := model.TimeSeries{
		Start:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Step:   time.Hour,
		Values: []float64{1.5, 2.25},
	}
	require.NoError(t, writeSeriesCSV(path, ts))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "energy_kwh"}, rows[0])
	assert.Equal(t, []string{"2023-01-01T00:00:00Z", "1.5"}, rows[1])
	assert.Equal(t, []string{"2023-01-01T01:00:00Z", "2.25"}, rows[2])
}

func TestWriteHouseCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.csv")
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	demand := vdi.HouseDemand{
		House: vdi.House{Name: "efh_1"},
		Heat:  model.TimeSeries{Start: start, Step: time.Hour, Values: []float64{1, 2}},
		Elec:  model.TimeSeries{Start: start, Step: time.Hour, Values: []float64{0.5, 0.25}},
		DHW:   model.TimeSeries{Start: start, Step: time.Hour, Values: []float64{0.1, 0.2}},
	}
	require.NoError(t, writeHouseCSV(path, demand))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "heat_kwh", "elec_kwh", "dhw_kwh"}, rows[0])
	assert.Equal(t, []string{"2023-01-01T00:00:00Z", "1", "0.5", "0.1"}, rows[1])
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", resolvePath("dir", ""))
	assert.Equal(t, "/abs/file.csv", resolvePath("dir", "/abs/file.csv"))
	assert.Equal(t, filepath.Join("dir", "file.csv"), resolvePath("dir", "file.csv"))
}
