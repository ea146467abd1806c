// Package generator bundles the demand engines behind request structs and
// streams results to callbacks in day batches.
package generator

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"demand_generator/internal/bdew"
	"demand_generator/internal/industry"
	"demand_generator/internal/model"
	"demand_generator/internal/vdi"
)

// ElectricalRequest asks for one BDEW electrical profile.
type ElectricalRequest struct {
	Year              int     `json:"year"`
	Profile           string  `json:"profile"`
	AnnualDemandKWh   float64 `json:"annual_demand_kwh"`
	ResolutionMinutes int     `json:"resolution_minutes,omitempty"`
	Dynamic           bool    `json:"dynamic,omitempty"`
}

// HeatRequest asks for one BDEW heat profile.
type HeatRequest struct {
	Year              int     `json:"year"`
	Profile           string  `json:"profile"`
	BuildingClass     int     `json:"building_class,omitempty"`
	WindClass         int     `json:"wind_class,omitempty"`
	HotWater          bool    `json:"hot_water"`
	AnnualDemandKWh   float64 `json:"annual_demand_kwh"`
	ResolutionMinutes int     `json:"resolution_minutes,omitempty"`
}

// VDIRequest asks for the typical-day curves of a set of houses.
type VDIRequest struct {
	Year              int         `json:"year"`
	Houses            []vdi.House `json:"houses"`
	ResolutionMinutes int         `json:"resolution_minutes,omitempty"`
}

// IndustrialRequest asks for a step profile. Nil factor groups take the
// defaults.
type IndustrialRequest struct {
	Year              int                   `json:"year"`
	AnnualDemandKWh   float64               `json:"annual_demand_kwh"`
	ResolutionMinutes int                   `json:"resolution_minutes,omitempty"`
	Week              *industry.StepFactors `json:"week,omitempty"`
	Weekend           *industry.StepFactors `json:"weekend,omitempty"`
	Holiday           *industry.StepFactors `json:"holiday,omitempty"`
}

// SeriesChunk is one day of a streamed series.
type SeriesChunk struct {
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Day         int       `json:"day"`
	Start       string    `json:"start"`
	StepSeconds int       `json:"step_seconds"`
	Values      []float64 `json:"values"`
}

// Summary closes a streamed generation run.
type Summary struct {
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Points      int     `json:"points"`
	StepSeconds int     `json:"step_seconds"`
	TotalKWh    float64 `json:"total_kwh"`
	PeakKWh     float64 `json:"peak_kwh"`
	MeanKWh     float64 `json:"mean_kwh"`
}

// Callback receives generation events. OnProgress counts days for single
// profiles and houses for regions.
type Callback interface {
	OnProgress(done, total int)
	OnSeries(chunk SeriesChunk)
	OnDone(summary Summary)
}

// progressInterval is the day spacing of OnProgress calls while streaming a
// single series.
const progressInterval = 30

// Generator bundles the table stores with the shared weather and holiday
// records. It is stateless across calls; one generator serves concurrent
// requests.
type Generator struct {
	tables   *bdew.Tables
	heat     *bdew.HeatEngine
	elec     *bdew.ElecEngine
	region   *vdi.Region
	weather  model.WeatherSeries
	holidays *model.HolidaySet
}

// New creates a generator. The weather series may be empty when only
// electrical and industrial profiles are requested.
func New(bdewTables *bdew.Tables, vdiTables *vdi.Tables, weather model.WeatherSeries, holidays *model.HolidaySet) *Generator {
	return &Generator{
		tables:   bdewTables,
		heat:     bdew.NewHeatEngine(bdewTables),
		elec:     bdew.NewElecEngine(bdewTables),
		region:   vdi.NewRegion(vdiTables),
		weather:  weather,
		holidays: holidays,
	}
}

// ElectricalProfiles lists the electrical profile identifiers.
func (g *Generator) ElectricalProfiles() []string {
	profiles := g.tables.ElecProfiles()
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = string(p)
	}
	return out
}

// HeatProfiles lists the heat profile identifiers.
func (g *Generator) HeatProfiles() []string {
	profiles := g.tables.HeatProfiles()
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = string(p)
	}
	return out
}

// WeatherRange returns the period covered by the loaded temperature record.
// ok is false when no weather was loaded.
func (g *Generator) WeatherRange() (start, end time.Time, ok bool) {
	temp := g.weather.Temperature
	if temp.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	return temp.Start, temp.End(), true
}

// HolidayCount returns the number of loaded holiday dates.
func (g *Generator) HolidayCount() int {
	return g.holidays.Len()
}

// Electrical generates one BDEW electrical profile.
func (g *Generator) Electrical(req ElectricalRequest) (model.TimeSeries, error) {
	resolution, err := requestResolution(req.Year, req.ResolutionMinutes)
	if err != nil {
		return model.TimeSeries{}, err
	}
	return g.elec.Generate(req.Year, g.holidays, bdew.ElecConfig{
		Profile:      bdew.ElecProfile(req.Profile),
		AnnualDemand: req.AnnualDemandKWh,
		Resolution:   resolution,
		Dynamic:      req.Dynamic,
	})
}

// Heat generates one BDEW heat profile from the shared weather record.
func (g *Generator) Heat(req HeatRequest) (model.TimeSeries, error) {
	resolution, err := requestResolution(req.Year, req.ResolutionMinutes)
	if err != nil {
		return model.TimeSeries{}, err
	}
	return g.heat.Generate(req.Year, g.weather, g.holidays, bdew.HeatConfig{
		Profile:       bdew.HeatProfile(req.Profile),
		BuildingClass: req.BuildingClass,
		WindClass:     req.WindClass,
		HotWater:      req.HotWater,
		AnnualDemand:  req.AnnualDemandKWh,
		Resolution:    resolution,
	})
}

// VDI generates the typical-day curves for a set of houses.
func (g *Generator) VDI(req VDIRequest) (vdi.Result, error) {
	resolution, err := requestResolution(req.Year, req.ResolutionMinutes)
	if err != nil {
		return vdi.Result{}, err
	}
	return g.region.Generate(req.Year, g.weather, g.holidays, req.Houses, resolution)
}

// Industrial generates a step profile.
func (g *Generator) Industrial(req IndustrialRequest) (model.TimeSeries, error) {
	resolution, err := requestResolution(req.Year, req.ResolutionMinutes)
	if err != nil {
		return model.TimeSeries{}, err
	}
	cfg := industry.Config{
		AnnualDemand: req.AnnualDemandKWh,
		Resolution:   resolution,
	}
	if req.Week != nil {
		cfg.Week = *req.Week
	}
	if req.Weekend != nil {
		cfg.Weekend = *req.Weekend
	}
	if req.Holiday != nil {
		cfg.Holiday = *req.Holiday
	}
	return industry.Generate(req.Year, g.holidays, cfg)
}

// StreamElectrical generates an electrical profile and streams it in day
// batches.
func (g *Generator) StreamElectrical(req ElectricalRequest, cb Callback) error {
	series, err := g.Electrical(req)
	if err != nil {
		return err
	}
	streamSeries("electrical", req.Profile, series, cb)
	cb.OnDone(summarize("electrical", req.Profile, series))
	return nil
}

// StreamHeat generates a heat profile and streams it in day batches.
func (g *Generator) StreamHeat(req HeatRequest, cb Callback) error {
	series, err := g.Heat(req)
	if err != nil {
		return err
	}
	streamSeries("heat", req.Profile, series, cb)
	cb.OnDone(summarize("heat", req.Profile, series))
	return nil
}

// StreamIndustrial generates a step profile and streams it in day batches.
func (g *Generator) StreamIndustrial(req IndustrialRequest, cb Callback) error {
	series, err := g.Industrial(req)
	if err != nil {
		return err
	}
	streamSeries("industrial", "step", series, cb)
	cb.OnDone(summarize("industrial", "step", series))
	return nil
}

// StreamVDI generates a region and streams every house curve plus the
// region total.
func (g *Generator) StreamVDI(req VDIRequest, cb Callback) error {
	result, err := g.VDI(req)
	if err != nil {
		return err
	}
	for i, demand := range result.Houses {
		name := demand.House.Name
		chunkSeries("vdi:heat", name, demand.Heat, cb)
		chunkSeries("vdi:elec", name, demand.Elec, cb)
		chunkSeries("vdi:dhw", name, demand.DHW, cb)
		cb.OnProgress(i+1, len(result.Houses))
	}
	chunkSeries("vdi:total", "region", result.Total, cb)
	cb.OnDone(summarize("vdi", "region", result.Total))
	return nil
}

// streamSeries emits one chunk per day plus periodic progress updates.
func streamSeries(kind, name string, ts model.TimeSeries, cb Callback) {
	size, days := chunkLayout(ts)
	for d := 0; d < days; d++ {
		cb.OnSeries(newChunk(kind, name, ts, d, size))
		if (d+1)%progressInterval == 0 || d == days-1 {
			cb.OnProgress(d+1, days)
		}
	}
}

// chunkSeries emits one chunk per day without progress updates.
func chunkSeries(kind, name string, ts model.TimeSeries, cb Callback) {
	size, days := chunkLayout(ts)
	for d := 0; d < days; d++ {
		cb.OnSeries(newChunk(kind, name, ts, d, size))
	}
}

// chunkLayout sizes the chunks: one day each, or the whole series when the
// step is a day or coarser.
func chunkLayout(ts model.TimeSeries) (size, count int) {
	if ts.Len() == 0 {
		return 0, 0
	}
	size = int((24 * time.Hour) / ts.Step)
	if size < 1 || size > ts.Len() {
		size = ts.Len()
	}
	return size, ts.Len() / size
}

func newChunk(kind, name string, ts model.TimeSeries, day, size int) SeriesChunk {
	return SeriesChunk{
		Kind:        kind,
		Name:        name,
		Day:         day,
		Start:       ts.TimeAt(day * size).Format(time.RFC3339),
		StepSeconds: int(ts.Step / time.Second),
		Values:      ts.Values[day*size : (day+1)*size],
	}
}

func summarize(kind, name string, ts model.TimeSeries) Summary {
	return Summary{
		Kind:        kind,
		Name:        name,
		Points:      ts.Len(),
		StepSeconds: int(ts.Step / time.Second),
		TotalKWh:    ts.Sum(),
		PeakKWh:     floats.Max(ts.Values),
		MeanKWh:     stat.Mean(ts.Values, nil),
	}
}

func requestResolution(year, minutes int) (time.Duration, error) {
	if year < 1 {
		return 0, fmt.Errorf("year %d must be positive: %w", year, model.ErrConfiguration)
	}
	if minutes < 0 {
		return 0, fmt.Errorf("resolution %d min must not be negative: %w", minutes, model.ErrConfiguration)
	}
	return time.Duration(minutes) * time.Minute, nil
}
