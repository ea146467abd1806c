package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// TRYParser parses DWD test reference year weather files (2010 and 2016
// format). The rows before the header are uncommented prose; the header is
// the line right before the first "***" separator. Data rows are
// whitespace-separated, hourly, and carry the temperature in column "t" and
// the cloud cover in column "N".
type TRYParser struct {
	// Year the hourly rows are mapped onto.
	Year int
}

func NewTRYParser(year int) *TRYParser {
	return &TRYParser{Year: year}
}

func (p *TRYParser) Parse(r io.Reader) (model.WeatherSeries, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header string
	var prev string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.Contains(line, "***") {
			header = prev
			break
		}
		prev = line
	}
	if err := scanner.Err(); err != nil {
		return model.WeatherSeries{}, fmt.Errorf("reading weather file: %w", err)
	}
	if header == "" {
		return model.WeatherSeries{}, fmt.Errorf("header row not found, expected it right before the \"***\" separator")
	}

	tempCol, cloudCol, width, err := tryColumns(header)
	if err != nil {
		return model.WeatherSeries{}, err
	}

	var temps, clouds []float64
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < width {
			return model.WeatherSeries{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, width, len(fields))
		}
		temp, err := strconv.ParseFloat(fields[tempCol], 64)
		if err != nil {
			return model.WeatherSeries{}, fmt.Errorf("line %d: parsing temperature %q: %w", lineNum, fields[tempCol], err)
		}
		cloud, err := strconv.ParseFloat(fields[cloudCol], 64)
		if err != nil {
			return model.WeatherSeries{}, fmt.Errorf("line %d: parsing cloud cover %q: %w", lineNum, fields[cloudCol], err)
		}
		temps = append(temps, temp)
		clouds = append(clouds, cloud)
	}
	if err := scanner.Err(); err != nil {
		return model.WeatherSeries{}, fmt.Errorf("reading weather file: %w", err)
	}

	hours := calendar.DaysInYear(p.Year) * 24
	if len(temps) != hours {
		return model.WeatherSeries{}, fmt.Errorf("expected %d hourly rows for %d, got %d: %w",
			hours, p.Year, len(temps), model.ErrInsufficientData)
	}

	start := calendar.YearStart(p.Year)
	return model.WeatherSeries{
		Temperature: model.TimeSeries{Start: start, Step: time.Hour, Values: temps},
		CloudCover:  model.TimeSeries{Start: start, Step: time.Hour, Values: clouds},
	}, nil
}

// tryColumns locates the temperature and cloud cover columns. The 2010 and
// 2016 formats order their columns differently, so positions come from the
// header.
func tryColumns(header string) (tempCol, cloudCol, width int, err error) {
	fields := strings.Fields(header)
	tempCol, cloudCol = -1, -1
	for i, name := range fields {
		switch name {
		case "t":
			tempCol = i
		case "N":
			cloudCol = i
		}
	}
	if tempCol < 0 || cloudCol < 0 {
		return 0, 0, 0, fmt.Errorf("header misses the \"t\" or \"N\" column: %q", header)
	}
	width = tempCol + 1
	if cloudCol >= width {
		width = cloudCol + 1
	}
	return tempCol, cloudCol, width, nil
}

// ParseTRYFile reads a DWD test reference year file from disk.
func ParseTRYFile(path string, year int) (model.WeatherSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.WeatherSeries{}, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()
	return NewTRYParser(year).Parse(f)
}
