// Package bdew implements the BDEW standard load profile methods for heat
// and electricity.
package bdew

import (
	"fmt"

	"demand_generator/internal/model"
)

// HeatProfile identifies a BDEW heat (gas) standard load profile.
type HeatProfile string

const (
	HeatEFH HeatProfile = "efh" // single-family house
	HeatMFH HeatProfile = "mfh" // multi-family house
	HeatGMK HeatProfile = "gmk" // metal and automotive
	HeatGHA HeatProfile = "gha" // retail and wholesale
	HeatGKO HeatProfile = "gko" // local authorities, banks and insurance
	HeatGBD HeatProfile = "gbd" // other operational services
	HeatGGA HeatProfile = "gga" // restaurants
	HeatGBH HeatProfile = "gbh" // accommodation
	HeatGGB HeatProfile = "ggb" // horticulture
	HeatGBA HeatProfile = "gba" // bakery
	HeatGWA HeatProfile = "gwa" // laundry
	HeatGPD HeatProfile = "gpd" // paper and printing
	HeatGMF HeatProfile = "gmf" // household-like businesses
	HeatGHD HeatProfile = "ghd" // aggregated trade and services
)

var heatProfiles = []HeatProfile{
	HeatEFH, HeatMFH, HeatGMK, HeatGHA, HeatGKO, HeatGBD, HeatGGA,
	HeatGBH, HeatGGB, HeatGBA, HeatGWA, HeatGPD, HeatGMF, HeatGHD,
}

// ParseHeatProfile converts a profile code like "efh" into a HeatProfile.
func ParseHeatProfile(s string) (HeatProfile, error) {
	for _, p := range heatProfiles {
		if HeatProfile(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("heat profile %q: %w", s, model.ErrUnknownProfile)
}

// Residential reports whether the profile uses building classes 1-11.
func (p HeatProfile) Residential() bool {
	return p == HeatEFH || p == HeatMFH
}

// ElecProfile identifies a BDEW electrical standard load profile.
type ElecProfile string

const (
	ElecH0 ElecProfile = "h0" // household
	ElecG0 ElecProfile = "g0" // commerce, weighted mix of G1-G6
	ElecG1 ElecProfile = "g1" // commerce on workdays 8-18h
	ElecG2 ElecProfile = "g2" // commerce with heavy evening consumption
	ElecG3 ElecProfile = "g3" // continuous commerce
	ElecG4 ElecProfile = "g4" // shop or barber
	ElecG5 ElecProfile = "g5" // bakery with bakehouse
	ElecG6 ElecProfile = "g6" // weekend operation
	ElecL0 ElecProfile = "l0" // agriculture, mix of L1-L2
	ElecL1 ElecProfile = "l1" // farm with dairy or sideline animal breeding
	ElecL2 ElecProfile = "l2" // other farms
)

var elecProfiles = []ElecProfile{
	ElecH0, ElecG0, ElecG1, ElecG2, ElecG3, ElecG4, ElecG5, ElecG6,
	ElecL0, ElecL1, ElecL2,
}

// ParseElecProfile converts a profile code like "h0" into an ElecProfile.
func ParseElecProfile(s string) (ElecProfile, error) {
	for _, p := range elecProfiles {
		if ElecProfile(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("electrical profile %q: %w", s, model.ErrUnknownProfile)
}

// Household reports whether the profile is the household profile, the only
// one the dynamic seasonal correction is defined for.
func (p ElecProfile) Household() bool {
	return p == ElecH0
}
