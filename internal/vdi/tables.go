package vdi

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

//go:embed data/energy_factors.csv
var factorsCSV []byte

//go:embed data/typical_day_shapes.csv
var shapesCSV []byte

// DayType is the three-letter typical-day code: season (W winter, S summer,
// U transition), day of the week (W weekday, S sunday or holiday) and cloud
// cover (B covered, H clear, X on summer days where the split is not made).
type DayType string

var allDayTypes = []DayType{
	"WWB", "WWH", "WSB", "WSH",
	"UWB", "UWH", "USB", "USH",
	"SWX", "SSX",
}

// NewDayType builds the code for one day.
func NewDayType(season calendar.Season, sundayOrHoliday, cloudy bool) DayType {
	var code [3]byte
	switch season {
	case calendar.SeasonWinter:
		code[0] = 'W'
	case calendar.SeasonSummer:
		code[0] = 'S'
	default:
		code[0] = 'U'
	}
	if sundayOrHoliday {
		code[1] = 'S'
	} else {
		code[1] = 'W'
	}
	switch {
	case season == calendar.SeasonSummer:
		code[2] = 'X'
	case cloudy:
		code[2] = 'B'
	default:
		code[2] = 'H'
	}
	return DayType(code[:])
}

func parseDayType(s string) (DayType, error) {
	for _, dt := range allDayTypes {
		if DayType(s) == dt {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unknown day type %q", s)
}

// DayTypes lists the ten typical-day codes.
func DayTypes() []DayType {
	out := make([]DayType, len(allDayTypes))
	copy(out, allDayTypes)
	return out
}

// EnergyKind selects one of the three demand curves of a typical day.
type EnergyKind string

const (
	EnergyHeat EnergyKind = "heat"
	EnergyElec EnergyKind = "elec"
	EnergyDHW  EnergyKind = "dhw"
)

var energyKinds = []EnergyKind{EnergyHeat, EnergyElec, EnergyDHW}

func parseEnergyKind(s string) (EnergyKind, error) {
	switch EnergyKind(s) {
	case EnergyHeat, EnergyElec, EnergyDHW:
		return EnergyKind(s), nil
	}
	return "", fmt.Errorf("unknown energy kind %q", s)
}

// EnergyFactors holds the daily demand factors of one typical day. Heat is
// the fraction of the annual heating demand. Elec and DHW are per-person or
// per-unit deviations from the 1/365 daily average and may be negative.
type EnergyFactors struct {
	Heat float64
	Elec float64
	DHW  float64
}

type factorKey struct {
	house HouseType
	day   DayType
}

type shapeKey struct {
	house  HouseType
	day    DayType
	energy EnergyKind
}

// Tables is the immutable typical-day store. Load once, then read
// concurrently.
type Tables struct {
	factors map[factorKey]EnergyFactors
	shapes  map[shapeKey][96]float64
}

// Load parses the bundled typical-day tables.
func Load() (*Tables, error) {
	t := &Tables{
		factors: make(map[factorKey]EnergyFactors),
		shapes:  make(map[shapeKey][96]float64),
	}
	if err := t.loadFactors(factorsCSV); err != nil {
		return nil, fmt.Errorf("energy factor table: %w", err)
	}
	if err := t.loadShapes(shapesCSV); err != nil {
		return nil, fmt.Errorf("typical day shape table: %w", err)
	}

	for _, house := range []HouseType{SingleFamily, MultiFamily} {
		for _, day := range allDayTypes {
			if _, ok := t.factors[factorKey{house, day}]; !ok {
				return nil, fmt.Errorf("energy factors missing for %s %s", house, day)
			}
			for _, energy := range energyKinds {
				if _, ok := t.shapes[shapeKey{house, day, energy}]; !ok {
					return nil, fmt.Errorf("shape missing for %s %s %s", house, day, energy)
				}
			}
		}
	}
	return t, nil
}

var defaultTables = sync.OnceValues(Load)

// Default returns the shared store backed by the bundled tables.
func Default() (*Tables, error) {
	return defaultTables()
}

// Factors returns the daily demand factors for a house type and day type.
func (t *Tables) Factors(house HouseType, day DayType) (EnergyFactors, error) {
	f, ok := t.factors[factorKey{house, day}]
	if !ok {
		return EnergyFactors{}, fmt.Errorf("no energy factors for %s %s: %w",
			house, day, model.ErrUnknownProfile)
	}
	return f, nil
}

// Shape returns the 96 quarter-hour weights of one typical-day curve. The
// weights sum to 1.
func (t *Tables) Shape(house HouseType, day DayType, energy EnergyKind) ([96]float64, error) {
	shape, ok := t.shapes[shapeKey{house, day, energy}]
	if !ok {
		return [96]float64{}, fmt.Errorf("no %s shape for %s %s: %w",
			energy, house, day, model.ErrUnknownProfile)
	}
	return shape, nil
}

func (t *Tables) loadFactors(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if err := validateHeader(header, []string{"house_type", "day_type", "f_heat", "f_el", "f_dhw"}); err != nil {
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

		house, err := ParseHouseType(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		day, err := parseDayType(record[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vals, err := parseFloats(record[2:])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if vals[0] < 0 {
			return fmt.Errorf("line %d: heating factor %g must not be negative", line, vals[0])
		}

		t.factors[factorKey{house, day}] = EnergyFactors{Heat: vals[0], Elec: vals[1], DHW: vals[2]}
	}
	return nil
}

func (t *Tables) loadShapes(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	want := []string{"house_type", "day_type", "energy"}
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

		house, err := ParseHouseType(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		day, err := parseDayType(record[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		energy, err := parseEnergyKind(record[2])
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
				return fmt.Errorf("line %d: negative weight %g", line, v)
			}
			shape[i] = v
		}
		sum := floats.Sum(shape[:])
		if math.Abs(sum-1) > 1e-3 {
			return fmt.Errorf("line %d: weights sum to %g, expected 1", line, sum)
		}
		// remove the CSV rounding residue
		floats.Scale(1/sum, shape[:])

		t.shapes[shapeKey{house, day, energy}] = shape
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
