// Command profile-gen renders a scenario file into one CSV series per
// profile and house. Paths inside the scenario resolve relative to the
// scenario file.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"demand_generator/internal/bdew"
	"demand_generator/internal/generator"
	"demand_generator/internal/industry"
	"demand_generator/internal/ingest"
	"demand_generator/internal/model"
	"demand_generator/internal/vdi"
)

type scenario struct {
	Year              int               `yaml:"year"`
	ResolutionMinutes int               `yaml:"resolution_minutes"`
	Weather           weatherSource     `yaml:"weather"`
	Holidays          string            `yaml:"holidays"`
	Electrical        []electricalEntry `yaml:"electrical"`
	Heat              []heatEntry       `yaml:"heat"`
	Industrial        []industrialEntry `yaml:"industrial"`
	Houses            []vdiHouseEntry   `yaml:"houses"`
}

type weatherSource struct {
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type electricalEntry struct {
	Name            string  `yaml:"name"`
	Profile         string  `yaml:"profile"`
	AnnualDemandKWh float64 `yaml:"annual_demand_kwh"`
	Dynamic         bool    `yaml:"dynamic"`
}

type heatEntry struct {
	Name            string  `yaml:"name"`
	Profile         string  `yaml:"profile"`
	BuildingClass   int     `yaml:"building_class"`
	WindClass       int     `yaml:"wind_class"`
	HotWater        bool    `yaml:"hot_water"`
	AnnualDemandKWh float64 `yaml:"annual_demand_kwh"`
}

type industrialEntry struct {
	Name            string       `yaml:"name"`
	AnnualDemandKWh float64      `yaml:"annual_demand_kwh"`
	Week            *stepFactors `yaml:"week"`
	Weekend         *stepFactors `yaml:"weekend"`
	Holiday         *stepFactors `yaml:"holiday"`
}

type stepFactors struct {
	Day   float64 `yaml:"day"`
	Night float64 `yaml:"night"`
}

type vdiHouseEntry struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"house_type"`
	Occupants   int     `yaml:"occupants"`
	Units       int     `yaml:"units"`
	AnnualHeat  float64 `yaml:"annual_heat_kwh"`
	AnnualElec  float64 `yaml:"annual_elec_kwh"`
	AnnualDHW   float64 `yaml:"annual_dhw_kwh"`
	SummerLimit float64 `yaml:"summer_temperature_limit"`
	WinterLimit float64 `yaml:"winter_temperature_limit"`
}

func main() {
	scenarioPath := flag.String("scenario", "scenario.yaml", "Scenario YAML path")
	outputDir := flag.String("output", "output", "Directory for the generated CSV files")
	flag.Parse()

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("reading scenario: %v", err)
	}

	base := filepath.Dir(*scenarioPath)
	weather, err := loadWeather(resolvePath(base, sc.Weather.File), sc.Weather.Format, sc.Year)
	if err != nil {
		log.Fatalf("loading weather: %v", err)
	}
	holidays, err := loadHolidays(resolvePath(base, sc.Holidays))
	if err != nil {
		log.Fatalf("loading holidays: %v", err)
	}

	bdewTables, err := bdew.Default()
	if err != nil {
		log.Fatalf("loading profile tables: %v", err)
	}
	vdiTables, err := vdi.Default()
	if err != nil {
		log.Fatalf("loading typical-day tables: %v", err)
	}
	gen := generator.New(bdewTables, vdiTables, weather, holidays)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}
	written, err := generateAll(gen, sc, *outputDir)
	if err != nil {
		log.Fatalf("generating: %v", err)
	}
	log.Printf("wrote %d files to %s", written, *outputDir)
}

func loadScenario(path string) (scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return scenario{}, err
	}
	defer f.Close()

	var sc scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := validateScenario(sc); err != nil {
		return scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// validateScenario checks what the engines cannot: each entry needs a
// distinct name because the name becomes the output file.
func validateScenario(sc scenario) error {
	if sc.Year < 1 {
		return fmt.Errorf("year %d must be positive", sc.Year)
	}
	names := map[string]bool{}
	claim := func(section, name string) error {
		if name == "" {
			return fmt.Errorf("%s entry needs a name", section)
		}
		if names[name] {
			return fmt.Errorf("duplicate entry name %q", name)
		}
		names[name] = true
		return nil
	}
	for _, e := range sc.Electrical {
		if err := claim("electrical", e.Name); err != nil {
			return err
		}
	}
	for _, e := range sc.Heat {
		if err := claim("heat", e.Name); err != nil {
			return err
		}
	}
	for _, e := range sc.Industrial {
		if err := claim("industrial", e.Name); err != nil {
			return err
		}
	}
	for _, e := range sc.Houses {
		if err := claim("house", e.Name); err != nil {
			return err
		}
	}
	return nil
}

// generateAll runs every scenario entry and writes one CSV per series. VDI
// houses get a combined file plus a region total.
func generateAll(gen *generator.Generator, sc scenario, outputDir string) (int, error) {
	written := 0
	write := func(name string, ts model.TimeSeries) error {
		path := filepath.Join(outputDir, name+".csv")
		if err := writeSeriesCSV(path, ts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Printf("  %s: %d points, %.1f kWh", name, ts.Len(), ts.Sum())
		written++
		return nil
	}

	for _, e := range sc.Electrical {
		series, err := gen.Electrical(generator.ElectricalRequest{
			Year:              sc.Year,
			Profile:           e.Profile,
			AnnualDemandKWh:   e.AnnualDemandKWh,
			ResolutionMinutes: sc.ResolutionMinutes,
			Dynamic:           e.Dynamic,
		})
		if err != nil {
			return written, fmt.Errorf("electrical %s: %w", e.Name, err)
		}
		if err := write(e.Name, series); err != nil {
			return written, err
		}
	}

	for _, e := range sc.Heat {
		series, err := gen.Heat(generator.HeatRequest{
			Year:              sc.Year,
			Profile:           e.Profile,
			BuildingClass:     e.BuildingClass,
			WindClass:         e.WindClass,
			HotWater:          e.HotWater,
			AnnualDemandKWh:   e.AnnualDemandKWh,
			ResolutionMinutes: sc.ResolutionMinutes,
		})
		if err != nil {
			return written, fmt.Errorf("heat %s: %w", e.Name, err)
		}
		if err := write(e.Name, series); err != nil {
			return written, err
		}
	}

	for _, e := range sc.Industrial {
		series, err := gen.Industrial(generator.IndustrialRequest{
			Year:              sc.Year,
			AnnualDemandKWh:   e.AnnualDemandKWh,
			ResolutionMinutes: sc.ResolutionMinutes,
			Week:              e.Week.toModel(),
			Weekend:           e.Weekend.toModel(),
			Holiday:           e.Holiday.toModel(),
		})
		if err != nil {
			return written, fmt.Errorf("industrial %s: %w", e.Name, err)
		}
		if err := write(e.Name, series); err != nil {
			return written, err
		}
	}

	if len(sc.Houses) > 0 {
		houses := make([]vdi.House, len(sc.Houses))
		for i, e := range sc.Houses {
			houses[i] = e.toModel()
		}
		result, err := gen.VDI(generator.VDIRequest{
			Year:              sc.Year,
			Houses:            houses,
			ResolutionMinutes: sc.ResolutionMinutes,
		})
		if err != nil {
			return written, fmt.Errorf("houses: %w", err)
		}
		for _, demand := range result.Houses {
			path := filepath.Join(outputDir, demand.House.Name+".csv")
			if err := writeHouseCSV(path, demand); err != nil {
				return written, fmt.Errorf("%s: %w", path, err)
			}
			log.Printf("  %s: %d points, %.1f/%.1f/%.1f kWh heat/elec/dhw",
				demand.House.Name, demand.Heat.Len(), demand.Heat.Sum(), demand.Elec.Sum(), demand.DHW.Sum())
			written++
		}
		if err := write("region", result.Total); err != nil {
			return written, err
		}
	}

	return written, nil
}

func (f *stepFactors) toModel() *industry.StepFactors {
	if f == nil {
		return nil
	}
	return &industry.StepFactors{Day: f.Day, Night: f.Night}
}

func (e vdiHouseEntry) toModel() vdi.House {
	return vdi.House{
		Name:        e.Name,
		Type:        vdi.HouseType(e.Type),
		Occupants:   e.Occupants,
		Units:       e.Units,
		AnnualHeat:  e.AnnualHeat,
		AnnualElec:  e.AnnualElec,
		AnnualDHW:   e.AnnualDHW,
		SummerLimit: e.SummerLimit,
		WinterLimit: e.WinterLimit,
	}
}

func loadWeather(path, format string, year int) (model.WeatherSeries, error) {
	if path == "" {
		return model.WeatherSeries{}, nil
	}
	if format == "" {
		format = "csv"
	}
	switch format {
	case "try":
		return ingest.ParseTRYFile(path, year)
	case "csv":
		return ingest.ParseWeatherCSVFile(path)
	}
	return model.WeatherSeries{}, fmt.Errorf("unknown weather format %q", format)
}

func loadHolidays(path string) (*model.HolidaySet, error) {
	if path == "" {
		return nil, nil
	}
	return ingest.ParseHolidayCSVFile(path)
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func writeSeriesCSV(path string, ts model.TimeSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "energy_kwh"}); err != nil {
		return err
	}
	for i, v := range ts.Values {
		if err := w.Write([]string{
			ts.TimeAt(i).Format(time.RFC3339),
			strconv.FormatFloat(v, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeHouseCSV(path string, demand vdi.HouseDemand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "heat_kwh", "elec_kwh", "dhw_kwh"}); err != nil {
		return err
	}
	for i := range demand.Heat.Values {
		if err := w.Write([]string{
			demand.Heat.TimeAt(i).Format(time.RFC3339),
			strconv.FormatFloat(demand.Heat.Values[i], 'f', -1, 64),
			strconv.FormatFloat(demand.Elec.Values[i], 'f', -1, 64),
			strconv.FormatFloat(demand.DHW.Values[i], 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
