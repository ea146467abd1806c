package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"demand_generator/internal/model"
)

// HolidayCSVParser parses holiday calendars.
//
// Expected format:
//
//	date,label
//	2045-01-01,New Year
type HolidayCSVParser struct{}

func NewHolidayCSVParser() *HolidayCSVParser {
	return &HolidayCSVParser{}
}

func (p *HolidayCSVParser) Parse(r io.Reader) (*model.HolidaySet, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) < 1 || strings.TrimSpace(header[0]) != "date" {
		return nil, fmt.Errorf("expected column 0 to be %q, got %v", "date", header)
	}

	set := model.NewHolidaySet()
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing date %q: %w", lineNum, record[0], err)
		}
		label := ""
		if len(record) > 1 {
			label = strings.TrimSpace(record[1])
		}
		set.Add(date, label)
	}

	return set, nil
}

// ParseHolidayCSVFile reads a holiday calendar from disk.
func ParseHolidayCSVFile(path string) (*model.HolidaySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening holiday file: %w", err)
	}
	defer f.Close()
	return NewHolidayCSVParser().Parse(f)
}
