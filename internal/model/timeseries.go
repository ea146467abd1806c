package model

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// TimeSeries is an evenly spaced sequence of values. Values[i] belongs to the
// interval [Start+i·Step, Start+(i+1)·Step); for demand series the value is
// the energy of that interval, so Sum() is the total energy.
type TimeSeries struct {
	Start  time.Time
	Step   time.Duration
	Values []float64
}

// NewTimeSeries allocates a zeroed series with n points.
func NewTimeSeries(start time.Time, step time.Duration, n int) TimeSeries {
	return TimeSeries{Start: start, Step: step, Values: make([]float64, n)}
}

func (ts TimeSeries) Len() int {
	return len(ts.Values)
}

// End returns the exclusive end of the covered range.
func (ts TimeSeries) End() time.Time {
	return ts.Start.Add(time.Duration(len(ts.Values)) * ts.Step)
}

// TimeAt returns the timestamp of the i-th interval start.
func (ts TimeSeries) TimeAt(i int) time.Time {
	return ts.Start.Add(time.Duration(i) * ts.Step)
}

// Sum returns the total over all values.
func (ts TimeSeries) Sum() float64 {
	return floats.Sum(ts.Values)
}

// Clone returns a deep copy.
func (ts TimeSeries) Clone() TimeSeries {
	out := TimeSeries{Start: ts.Start, Step: ts.Step, Values: make([]float64, len(ts.Values))}
	copy(out.Values, ts.Values)
	return out
}

// ScaleTo rescales the series in place so its values sum to total.
// A zero-sum series can only be scaled to zero.
func (ts *TimeSeries) ScaleTo(total float64) error {
	sum := ts.Sum()
	if sum == 0 {
		if total == 0 {
			return nil
		}
		return fmt.Errorf("cannot scale zero-sum series to %g: %w", total, ErrDomain)
	}
	floats.Scale(total/sum, ts.Values)
	return nil
}

// Resample converts the series to a different step while preserving the
// integral. Downsampling aggregates whole windows; upsampling splits each
// value evenly across the finer intervals. The step ratio must be integer
// in either direction.
func (ts TimeSeries) Resample(step time.Duration) (TimeSeries, error) {
	if step <= 0 {
		return TimeSeries{}, fmt.Errorf("resample step %v: %w", step, ErrConfiguration)
	}
	if step == ts.Step {
		return ts.Clone(), nil
	}

	if step > ts.Step {
		if step%ts.Step != 0 {
			return TimeSeries{}, fmt.Errorf("step %v is not a multiple of %v: %w", step, ts.Step, ErrConfiguration)
		}
		ratio := int(step / ts.Step)
		if len(ts.Values)%ratio != 0 {
			return TimeSeries{}, fmt.Errorf("series length %d is not divisible by ratio %d: %w", len(ts.Values), ratio, ErrConfiguration)
		}
		out := NewTimeSeries(ts.Start, step, len(ts.Values)/ratio)
		for i := range out.Values {
			out.Values[i] = floats.Sum(ts.Values[i*ratio : (i+1)*ratio])
		}
		return out, nil
	}

	if ts.Step%step != 0 {
		return TimeSeries{}, fmt.Errorf("step %v does not divide %v: %w", step, ts.Step, ErrConfiguration)
	}
	ratio := int(ts.Step / step)
	out := NewTimeSeries(ts.Start, step, len(ts.Values)*ratio)
	for i, v := range ts.Values {
		share := v / float64(ratio)
		for j := 0; j < ratio; j++ {
			out.Values[i*ratio+j] = share
		}
	}
	return out, nil
}

// Add returns the element-wise sum of two aligned series.
func (ts TimeSeries) Add(other TimeSeries) (TimeSeries, error) {
	if !ts.Start.Equal(other.Start) || ts.Step != other.Step || len(ts.Values) != len(other.Values) {
		return TimeSeries{}, fmt.Errorf("cannot add misaligned series: %w", ErrConfiguration)
	}
	out := ts.Clone()
	floats.Add(out.Values, other.Values)
	return out, nil
}
