package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayCSVParser_Parse(t *testing.T) {
	input := `date,label
2045-01-01,New Year
2045-05-01,Labour Day
2045-12-25,Christmas`

	set, err := NewHolidayCSVParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(time.Date(2045, 5, 1, 0, 0, 0, 0, time.UTC)))
	label, ok := set.Label(time.Date(2045, 12, 25, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "Christmas", label)
	assert.False(t, set.Contains(time.Date(2045, 5, 2, 0, 0, 0, 0, time.UTC)))
}

func TestHolidayCSVParser_LabelOptional(t *testing.T) {
	input := "date\n2045-01-01\n"

	set, err := NewHolidayCSVParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	label, ok := set.Label(time.Date(2045, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "", label)
}

func TestHolidayCSVParser_BadDate(t *testing.T) {
	input := "date,label\nJan 1st,New Year\n"

	_, err := NewHolidayCSVParser().Parse(strings.NewReader(input))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestHolidayCSVParser_InvalidHeader(t *testing.T) {
	input := "day,label\n2045-01-01,New Year\n"

	_, err := NewHolidayCSVParser().Parse(strings.NewReader(input))
	assert.Error(t, err)
}
