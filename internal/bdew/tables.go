package bdew

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

//go:embed data/sigmoid.csv
var sigmoidCSV []byte

//go:embed data/weekday_factors.csv
var weekdayCSV []byte

//go:embed data/hour_factors.csv
var hourCSV []byte

//go:embed data/elec_shapes.csv
var elecCSV []byte

// SigmoidParams holds the A-D coefficients of the heat demand sigmoid.
type SigmoidParams struct {
	A, B, C, D float64
}

type sigmoidKey struct {
	profile       HeatProfile
	buildingClass int
	windClass     int
}

type weekdayKey struct {
	profile HeatProfile
	day     calendar.DayCategory
}

type hourKey struct {
	profile HeatProfile
	season  calendar.Season
	day     calendar.DayCategory
}

type elecKey struct {
	profile ElecProfile
	season  calendar.Season
	day     calendar.DayCategory
}

// Tables is the immutable reference table store shared by the engines. Load
// once, then read concurrently from any number of generation calls.
type Tables struct {
	sigmoid map[sigmoidKey]SigmoidParams
	weekday map[weekdayKey]float64
	hours   map[hourKey][24]float64
	elec    map[elecKey][96]float64
	seasons calendar.SeasonRules
}

// The mixed profiles are fixed consumption-weighted combinations of their
// branch profiles, composed once at load time.
var mixedElec = map[ElecProfile]map[ElecProfile]float64{
	ElecG0: {ElecG1: 0.23, ElecG2: 0.15, ElecG3: 0.12, ElecG4: 0.25, ElecG5: 0.15, ElecG6: 0.10},
	ElecL0: {ElecL1: 0.5, ElecL2: 0.5},
}

// Load parses the bundled reference tables.
func Load() (*Tables, error) {
	t := &Tables{
		sigmoid: make(map[sigmoidKey]SigmoidParams),
		weekday: make(map[weekdayKey]float64),
		hours:   make(map[hourKey][24]float64),
		elec:    make(map[elecKey][96]float64),
		seasons: calendar.DefaultSeasonRules(),
	}
	if err := t.loadSigmoid(sigmoidCSV); err != nil {
		return nil, fmt.Errorf("sigmoid table: %w", err)
	}
	if err := t.loadWeekday(weekdayCSV); err != nil {
		return nil, fmt.Errorf("weekday factor table: %w", err)
	}
	if err := t.loadHours(hourCSV); err != nil {
		return nil, fmt.Errorf("hour factor table: %w", err)
	}
	if err := t.loadElec(elecCSV); err != nil {
		return nil, fmt.Errorf("electrical shape table: %w", err)
	}
	if err := t.deriveMixedProfiles(); err != nil {
		return nil, err
	}
	return t, nil
}

var defaultTables = sync.OnceValues(Load)

// Default returns the shared store backed by the bundled tables.
func Default() (*Tables, error) {
	return defaultTables()
}

// Seasons returns the season rules the tables are keyed by.
func (t *Tables) Seasons() calendar.SeasonRules {
	return t.seasons
}

// HeatProfiles lists all heat profiles available in the tables.
func (t *Tables) HeatProfiles() []HeatProfile {
	out := make([]HeatProfile, len(heatProfiles))
	copy(out, heatProfiles)
	return out
}

// ElecProfiles lists all electrical profiles available in the tables.
func (t *Tables) ElecProfiles() []ElecProfile {
	out := make([]ElecProfile, len(elecProfiles))
	copy(out, elecProfiles)
	return out
}

// Sigmoid returns the sigmoid coefficients for a heat profile.
func (t *Tables) Sigmoid(p HeatProfile, buildingClass, windClass int) (SigmoidParams, error) {
	params, ok := t.sigmoid[sigmoidKey{p, buildingClass, windClass}]
	if !ok {
		return SigmoidParams{}, fmt.Errorf("no sigmoid coefficients for %s building class %d wind class %d: %w",
			p, buildingClass, windClass, model.ErrUnknownProfile)
	}
	return params, nil
}

// WeekdayFactor returns the day factor for a heat profile.
func (t *Tables) WeekdayFactor(p HeatProfile, day calendar.DayCategory) (float64, error) {
	f, ok := t.weekday[weekdayKey{p, day}]
	if !ok {
		return 0, fmt.Errorf("no weekday factor for %s %s: %w", p, day, model.ErrUnknownProfile)
	}
	return f, nil
}

// HourFactors returns the 24 intraday weights for a heat profile. The
// weights sum to 1.
func (t *Tables) HourFactors(p HeatProfile, season calendar.Season, day calendar.DayCategory) ([24]float64, error) {
	sf, ok := t.hours[hourKey{p, season, day}]
	if !ok {
		return [24]float64{}, fmt.Errorf("no hour factors for %s %s %s: %w", p, season, day, model.ErrUnknownProfile)
	}
	return sf, nil
}

// ElecShape returns the 96 quarter-hour multipliers for an electrical
// profile day.
func (t *Tables) ElecShape(p ElecProfile, season calendar.Season, day calendar.DayCategory) ([96]float64, error) {
	shape, ok := t.elec[elecKey{p, season, day}]
	if !ok {
		return [96]float64{}, fmt.Errorf("no shape for %s %s %s: %w", p, season, day, model.ErrUnknownProfile)
	}
	return shape, nil
}

func (t *Tables) loadSigmoid(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if err := validateHeader(header, []string{"profile", "building_class", "wind_class", "a", "b", "c", "d"}); err != nil {
		return err
	}

	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		profile, err := ParseHeatProfile(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		bc, err := strconv.Atoi(record[1])
		if err != nil {
			return fmt.Errorf("line %d: parsing building class: %w", line, err)
		}
		wind, err := strconv.Atoi(record[2])
		if err != nil {
			return fmt.Errorf("line %d: parsing wind class: %w", line, err)
		}
		coeffs, err := parseFloats(record[3:])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		t.sigmoid[sigmoidKey{profile, bc, wind}] = SigmoidParams{
			A: coeffs[0], B: coeffs[1], C: coeffs[2], D: coeffs[3],
		}
	}
	return nil
}

func (t *Tables) loadWeekday(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if err := validateHeader(header, []string{"profile", "day_category", "factor"}); err != nil {
		return err
	}

	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		profile, err := ParseHeatProfile(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		day, err := calendar.ParseDayCategory(record[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		f, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: parsing factor: %w", line, err)
		}
		if f <= 0 {
			return fmt.Errorf("line %d: factor %g must be positive", line, f)
		}

		t.weekday[weekdayKey{profile, day}] = f
	}
	return nil
}

func (t *Tables) loadHours(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	want := []string{"profile", "season", "day_category"}
	if err := validateHeader(header, want); err != nil {
		return err
	}
	if len(header) != len(want)+24 {
		return fmt.Errorf("expected %d columns, got %d", len(want)+24, len(header))
	}

	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		profile, err := ParseHeatProfile(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		season, err := calendar.ParseSeason(record[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		day, err := calendar.ParseDayCategory(record[2])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vals, err := parseFloats(record[3:])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		var sf [24]float64
		copy(sf[:], vals)
		sum := floats.Sum(sf[:])
		if math.Abs(sum-1) > 1e-3 {
			return fmt.Errorf("line %d: weights sum to %g, expected 1", line, sum)
		}
		// remove the CSV rounding residue
		floats.Scale(1/sum, sf[:])

		t.hours[hourKey{profile, season, day}] = sf
	}
	return nil
}

func (t *Tables) loadElec(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	want := []string{"profile", "season", "day_category"}
	if err := validateHeader(header, want); err != nil {
		return err
	}
	if len(header) != len(want)+96 {
		return fmt.Errorf("expected %d columns, got %d", len(want)+96, len(header))
	}

	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		profile, err := ParseElecProfile(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		season, err := calendar.ParseSeason(record[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		day, err := calendar.ParseDayCategory(record[2])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vals, err := parseFloats(record[3:])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		var shape [96]float64
		for i, v := range vals {
			if v < 0 {
				return fmt.Errorf("line %d: negative shape value %g", line, v)
			}
			shape[i] = v
		}

		t.elec[elecKey{profile, season, day}] = shape
	}
	return nil
}

// deriveMixedProfiles composes g0 and l0 from their stored branch profiles.
func (t *Tables) deriveMixedProfiles() error {
	for mixed, weights := range mixedElec {
		for _, season := range calendar.Seasons() {
			for _, day := range calendar.DayCategories() {
				var combo [96]float64
				for part, w := range weights {
					shape, ok := t.elec[elecKey{part, season, day}]
					if !ok {
						return fmt.Errorf("missing %s %s %s needed for %s: %w",
							part, season, day, mixed, model.ErrUnknownProfile)
					}
					for i := range combo {
						combo[i] += w * shape[i]
					}
				}
				t.elec[elecKey{mixed, season, day}] = combo
			}
		}
	}
	return nil
}

func validateHeader(header, want []string) error {
	if len(header) < len(want) {
		return fmt.Errorf("expected at least %d columns, got %d", len(want), len(header))
	}
	for i, col := range want {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func parseFloats(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, s := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
