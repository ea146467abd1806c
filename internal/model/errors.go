package model

import "errors"

// Sentinel errors shared by all engines. Wrap with fmt.Errorf("...: %w", err)
// and test with errors.Is.
var (
	// ErrConfiguration marks invalid static parameters: bad building class,
	// bad house type, negative annual demand, broken resample ratios.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInsufficientData marks weather input that does not cover the
	// requested date range.
	ErrInsufficientData = errors.New("insufficient weather data")

	// ErrUnknownProfile marks a profile/building-class combination absent
	// from the reference tables.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrUnsupportedOption marks an option valid in general but not for the
	// given profile, e.g. the dynamic correction outside h0.
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrDomain marks numeric input outside the model's physical range,
	// e.g. a smoothed temperature at the sigmoid asymptote.
	ErrDomain = errors.New("input outside model domain")
)
