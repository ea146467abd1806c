package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demand_generator/internal/bdew"
	"demand_generator/internal/model"
)

func testTables(t *testing.T) *bdew.Tables {
	t.Helper()
	tables, err := bdew.Default()
	require.NoError(t, err)
	return tables
}

func TestSelectProfiles_All(t *testing.T) {
	profiles, err := selectProfiles(testTables(t), "all")
	require.NoError(t, err)
	assert.Len(t, profiles, 11)
	assert.Equal(t, bdew.ElecH0, profiles[0])
}

func TestSelectProfiles_List(t *testing.T) {
	profiles, err := selectProfiles(testTables(t), "h0, g0,l0")
	require.NoError(t, err)
	assert.Equal(t, []bdew.ElecProfile{bdew.ElecH0, bdew.ElecG0, bdew.ElecL0}, profiles)
}

func TestSelectProfiles_Unknown(t *testing.T) {
	_, err := selectProfiles(testTables(t), "h0,x9")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnknownProfile)
}

func TestExportShapes(t *testing.T) {
	series, err := exportShapes(testTables(t), []bdew.ElecProfile{bdew.ElecH0, bdew.ElecG0}, 2023, 15, false, nil)
	require.NoError(t, err)
	require.Len(t, series, 2)

	for _, ts := range series {
		assert.Equal(t, 35040, ts.Len())
		assert.InDelta(t, normalizedAnnualKWh, ts.Sum(), 1e-6)
	}
}

func TestExportShapes_DynamicSkipsNonHousehold(t *testing.T) {
	// The correction is only defined for h0; the flag must not break a g1
	// column in the same export.
	series, err := exportShapes(testTables(t), []bdew.ElecProfile{bdew.ElecH0, bdew.ElecG1}, 2023, 15, true, nil)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, normalizedAnnualKWh, series[0].Sum(), 1e-6)
}

func TestWriteShapeCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slp.csv")
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []bdew.ElecProfile{bdew.ElecH0, bdew.ElecG0}
	series := []model.TimeSeries{
		{Start: start, Step: 15 * time.Minute, Values: []float64{0.5, 0.25}},
		{Start: start, Step: 15 * time.Minute, Values: []float64{0.125, 0.75}},
	}
	require.NoError(t, writeShapeCSV(path, profiles, series))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "h0", "g0"}, rows[0])
	assert.Equal(t, []string{"2023-01-01T00:00:00Z", "0.5", "0.125"}, rows[1])
	assert.Equal(t, []string{"2023-01-01T00:15:00Z", "0.25", "0.75"}, rows[2])
}
