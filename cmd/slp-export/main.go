// Command slp-export dumps the electrical standard load profiles of one
// calendar year to a single CSV, one column per profile. Values are kWh per
// interval at the published normalization of 1000 kWh annual consumption.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"demand_generator/internal/bdew"
	"demand_generator/internal/ingest"
	"demand_generator/internal/model"
)

// The published profiles are scaled to an annual consumption of 1000 kWh.
const normalizedAnnualKWh = 1000

func main() {
	year := flag.Int("year", time.Now().Year(), "Calendar year to export")
	profilesFlag := flag.String("profiles", "all", "Comma-separated profile codes, or all")
	resolution := flag.Int("resolution", 15, "Step width in minutes")
	dynamic := flag.Bool("dynamic", false, "Apply the dynamic seasonal correction to h0")
	holidaysPath := flag.String("holidays", "", "Holiday CSV path; holidays shape like Sundays")
	output := flag.String("output", "", "Output CSV path (default slp_<year>.csv)")
	flag.Parse()

	tables, err := bdew.Default()
	if err != nil {
		log.Fatalf("loading profile tables: %v", err)
	}
	profiles, err := selectProfiles(tables, *profilesFlag)
	if err != nil {
		log.Fatalf("selecting profiles: %v", err)
	}

	var holidays *model.HolidaySet
	if *holidaysPath != "" {
		holidays, err = ingest.ParseHolidayCSVFile(*holidaysPath)
		if err != nil {
			log.Fatalf("loading holidays: %v", err)
		}
		log.Printf("loaded %d holidays", holidays.Len())
	}

	series, err := exportShapes(tables, profiles, *year, *resolution, *dynamic, holidays)
	if err != nil {
		log.Fatalf("generating: %v", err)
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("slp_%d.csv", *year)
	}
	if err := writeShapeCSV(path, profiles, series); err != nil {
		log.Fatalf("writing %s: %v", path, err)
	}
	log.Printf("wrote %d profiles x %d points to %s", len(profiles), series[0].Len(), path)
}

// selectProfiles resolves the -profiles flag into profile identifiers.
func selectProfiles(tables *bdew.Tables, spec string) ([]bdew.ElecProfile, error) {
	if spec == "all" {
		return tables.ElecProfiles(), nil
	}
	var profiles []bdew.ElecProfile
	for _, code := range strings.Split(spec, ",") {
		p, err := bdew.ParseElecProfile(strings.TrimSpace(code))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles selected: %w", model.ErrConfiguration)
	}
	return profiles, nil
}

// exportShapes generates every selected profile at the 1000 kWh/a
// normalization. The dynamic correction only applies to h0; other profiles
// ignore the flag.
func exportShapes(tables *bdew.Tables, profiles []bdew.ElecProfile, year, resolutionMinutes int, dynamic bool, holidays *model.HolidaySet) ([]model.TimeSeries, error) {
	engine := bdew.NewElecEngine(tables)
	series := make([]model.TimeSeries, len(profiles))
	for i, p := range profiles {
		ts, err := engine.Generate(year, holidays, bdew.ElecConfig{
			Profile:      p,
			AnnualDemand: normalizedAnnualKWh,
			Resolution:   time.Duration(resolutionMinutes) * time.Minute,
			Dynamic:      dynamic && p.Household(),
		})
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p, err)
		}
		series[i] = ts
	}
	return series, nil
}

func writeShapeCSV(path string, profiles []bdew.ElecProfile, series []model.TimeSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]string, 1, len(profiles)+1)
	header[0] = "timestamp"
	for _, p := range profiles {
		header = append(header, string(p))
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i := 0; i < series[0].Len(); i++ {
		row[0] = series[0].TimeAt(i).Format(time.RFC3339)
		for c, ts := range series {
			row[c+1] = strconv.FormatFloat(ts.Values[i], 'f', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
