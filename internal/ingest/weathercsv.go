package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"demand_generator/internal/model"
)

// WeatherCSVParser parses plain timestamped weather exports.
//
// Expected format:
//
//	timestamp,temperature,cloud_cover
//	2045-01-01T00:00:00Z,3.1,6
//
// The cloud_cover column is optional. Timestamps must be evenly spaced.
type WeatherCSVParser struct{}

func NewWeatherCSVParser() *WeatherCSVParser {
	return &WeatherCSVParser{}
}

func (p *WeatherCSVParser) Parse(r io.Reader) (model.WeatherSeries, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return model.WeatherSeries{}, fmt.Errorf("reading CSV header: %w", err)
	}
	hasCloud, err := validateWeatherHeader(header)
	if err != nil {
		return model.WeatherSeries{}, err
	}

	var stamps []time.Time
	var temps, clouds []float64
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.WeatherSeries{}, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		ts, temp, cloud, err := parseWeatherRecord(record, hasCloud, lineNum)
		if err != nil {
			return model.WeatherSeries{}, err
		}
		stamps = append(stamps, ts)
		temps = append(temps, temp)
		if hasCloud {
			clouds = append(clouds, cloud)
		}
	}

	if len(stamps) < 2 {
		return model.WeatherSeries{}, fmt.Errorf("need at least 2 rows to infer the step, got %d: %w",
			len(stamps), model.ErrInsufficientData)
	}
	step := stamps[1].Sub(stamps[0])
	if step <= 0 {
		return model.WeatherSeries{}, fmt.Errorf("timestamps must be strictly increasing, got step %s", step)
	}
	for i, ts := range stamps {
		if want := stamps[0].Add(time.Duration(i) * step); !ts.Equal(want) {
			return model.WeatherSeries{}, fmt.Errorf("line %d: timestamp %s breaks the %s spacing",
				i+2, ts.Format(time.RFC3339), step)
		}
	}

	out := model.WeatherSeries{
		Temperature: model.TimeSeries{Start: stamps[0], Step: step, Values: temps},
	}
	if hasCloud {
		out.CloudCover = model.TimeSeries{Start: stamps[0], Step: step, Values: clouds}
	}
	return out, nil
}

func validateWeatherHeader(header []string) (hasCloud bool, err error) {
	if len(header) < 2 {
		return false, fmt.Errorf("expected at least 2 columns, got %d", len(header))
	}
	expected := []string{"timestamp", "temperature"}
	for i, col := range expected {
		if strings.TrimSpace(header[i]) != col {
			return false, fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	if len(header) == 2 {
		return false, nil
	}
	if strings.TrimSpace(header[2]) != "cloud_cover" {
		return false, fmt.Errorf("expected column 2 to be %q, got %q", "cloud_cover", header[2])
	}
	return true, nil
}

func parseWeatherRecord(record []string, hasCloud bool, lineNum int) (time.Time, float64, float64, error) {
	want := 2
	if hasCloud {
		want = 3
	}
	if len(record) < want {
		return time.Time{}, 0, 0, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, want, len(record))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
	if err != nil {
		// Try the space-separated form
		ts, err = time.Parse("2006-01-02 15:04:05", strings.TrimSpace(record[0]))
		if err != nil {
			return time.Time{}, 0, 0, fmt.Errorf("line %d: parsing timestamp %q: %w", lineNum, record[0], err)
		}
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("line %d: parsing temperature %q: %w", lineNum, record[1], err)
	}

	var cloud float64
	if hasCloud {
		cloud, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return time.Time{}, 0, 0, fmt.Errorf("line %d: parsing cloud cover %q: %w", lineNum, record[2], err)
		}
	}
	return ts, temp, cloud, nil
}

// ParseWeatherCSVFile reads a timestamped weather CSV from disk.
func ParseWeatherCSVFile(path string) (model.WeatherSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.WeatherSeries{}, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()
	return NewWeatherCSVParser().Parse(f)
}
