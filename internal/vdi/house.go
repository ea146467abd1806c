// Package vdi generates combined heat, electricity and domestic hot water
// demand for small residential buildings from VDI 4655 typical days.
package vdi

import (
	"fmt"

	"demand_generator/internal/calendar"
	"demand_generator/internal/model"
)

// HouseType distinguishes the two dwelling categories of the typical-day
// tables.
type HouseType string

const (
	SingleFamily HouseType = "efh"
	MultiFamily  HouseType = "mfh"
)

// The tables cover single-family houses up to 12 occupants and
// multi-family houses up to 40 units.
const (
	maxOccupants = 12
	maxUnits     = 40
)

// ParseHouseType converts a string into a known house type.
func ParseHouseType(s string) (HouseType, error) {
	switch HouseType(s) {
	case SingleFamily, MultiFamily:
		return HouseType(s), nil
	}
	return "", fmt.Errorf("unknown house type %q: %w", s, model.ErrConfiguration)
}

// House describes one building of a region. The temperature limits steer
// the seasonal day typing; zero values take the 15 °C / 5 °C defaults.
type House struct {
	Name        string    `json:"name"`
	Type        HouseType `json:"house_type"`
	Occupants   int       `json:"occupants,omitempty"`
	Units       int       `json:"units,omitempty"`
	AnnualHeat  float64   `json:"annual_heat_kwh"`
	AnnualElec  float64   `json:"annual_elec_kwh"`
	AnnualDHW   float64   `json:"annual_dhw_kwh"`
	SummerLimit float64   `json:"summer_temperature_limit,omitempty"`
	WinterLimit float64   `json:"winter_temperature_limit,omitempty"`
}

// Validate checks the house against the table ranges.
func (h House) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("house needs a name: %w", model.ErrConfiguration)
	}
	if _, err := ParseHouseType(string(h.Type)); err != nil {
		return fmt.Errorf("house %s: %w", h.Name, err)
	}
	switch h.Type {
	case SingleFamily:
		if h.Occupants < 1 || h.Occupants > maxOccupants {
			return fmt.Errorf("house %s: %d occupants outside [1,%d]: %w",
				h.Name, h.Occupants, maxOccupants, model.ErrConfiguration)
		}
	case MultiFamily:
		if h.Units < 1 || h.Units > maxUnits {
			return fmt.Errorf("house %s: %d units outside [1,%d]: %w",
				h.Name, h.Units, maxUnits, model.ErrConfiguration)
		}
	}
	for _, demand := range []struct {
		name  string
		value float64
	}{
		{"heat", h.AnnualHeat},
		{"electricity", h.AnnualElec},
		{"hot water", h.AnnualDHW},
	} {
		if demand.value < 0 {
			return fmt.Errorf("house %s: annual %s demand %g must not be negative: %w",
				h.Name, demand.name, demand.value, model.ErrConfiguration)
		}
	}
	return nil
}

// scale is the N of the VDI daily demand formula: occupants for
// single-family houses, units for multi-family houses.
func (h House) scale() float64 {
	if h.Type == MultiFamily {
		return float64(h.Units)
	}
	return float64(h.Occupants)
}

// thresholds returns the per-house season split, with defaults applied.
func (h House) thresholds() calendar.TemperatureThresholds {
	t := calendar.DefaultTemperatureThresholds()
	if h.SummerLimit != 0 {
		t.Summer = h.SummerLimit
	}
	if h.WinterLimit != 0 {
		t.Winter = h.WinterLimit
	}
	return t
}
