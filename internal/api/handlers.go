package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"demand_generator/internal/generator"
	"demand_generator/internal/model"
	"demand_generator/internal/vdi"
)

// SeriesResponse carries one generated series with its totals.
type SeriesResponse struct {
	Name        string    `json:"name"`
	Start       string    `json:"start"`
	StepSeconds int       `json:"step_seconds"`
	Points      int       `json:"points"`
	TotalKWh    float64   `json:"total_kwh"`
	Values      []float64 `json:"values"`
}

func newSeriesResponse(name string, ts model.TimeSeries) SeriesResponse {
	return SeriesResponse{
		Name:        name,
		Start:       ts.Start.Format(time.RFC3339),
		StepSeconds: int(ts.Step / time.Second),
		Points:      ts.Len(),
		TotalKWh:    ts.Sum(),
		Values:      ts.Values,
	}
}

// HouseResponse groups the three demand curves of one house.
type HouseResponse struct {
	Heat SeriesResponse `json:"heat"`
	Elec SeriesResponse `json:"elec"`
	DHW  SeriesResponse `json:"dhw"`
}

type VDIResponse struct {
	Houses map[string]HouseResponse `json:"houses"`
	Total  SeriesResponse           `json:"total"`
}

// CatalogResponse lists the available profiles and loaded input data.
type CatalogResponse struct {
	ElectricalProfiles []string `json:"electrical_profiles"`
	HeatProfiles       []string `json:"heat_profiles"`
	HouseTypes         []string `json:"house_types"`
	WeatherStart       string   `json:"weather_start,omitempty"`
	WeatherEnd         string   `json:"weather_end,omitempty"`
	Holidays           int      `json:"holidays"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) catalog(w http.ResponseWriter, _ *http.Request) {
	resp := CatalogResponse{
		ElectricalProfiles: s.gen.ElectricalProfiles(),
		HeatProfiles:       s.gen.HeatProfiles(),
		HouseTypes:         []string{string(vdi.SingleFamily), string(vdi.MultiFamily)},
		Holidays:           s.gen.HolidayCount(),
	}
	if start, end, ok := s.gen.WeatherRange(); ok {
		resp.WeatherStart = start.Format(time.RFC3339)
		resp.WeatherEnd = end.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) electrical(w http.ResponseWriter, r *http.Request) {
	var req generator.ElectricalRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	series, err := s.gen.Electrical(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSeriesResponse(req.Profile, series))
}

func (s *Server) heat(w http.ResponseWriter, r *http.Request) {
	var req generator.HeatRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	series, err := s.gen.Heat(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSeriesResponse(req.Profile, series))
}

func (s *Server) vdi(w http.ResponseWriter, r *http.Request) {
	var req generator.VDIRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	result, err := s.gen.VDI(req)
	if err != nil {
		writeError(w, err)
		return
	}

	houses := make(map[string]HouseResponse, len(result.Houses))
	for _, demand := range result.Houses {
		name := demand.House.Name
		houses[name] = HouseResponse{
			Heat: newSeriesResponse(name, demand.Heat),
			Elec: newSeriesResponse(name, demand.Elec),
			DHW:  newSeriesResponse(name, demand.DHW),
		}
	}
	writeJSON(w, http.StatusOK, VDIResponse{
		Houses: houses,
		Total:  newSeriesResponse("region", result.Total),
	})
}

func (s *Server) industrial(w http.ResponseWriter, r *http.Request) {
	var req generator.IndustrialRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	series, err := s.gen.Industrial(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSeriesResponse("step", series))
}

func decodeRequest(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeError maps generation failures to status codes. Everything the caller
// can fix by changing the request is a bad request, including asking for a
// period the loaded weather does not cover.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	for _, clientErr := range []error{
		model.ErrConfiguration,
		model.ErrUnknownProfile,
		model.ErrUnsupportedOption,
		model.ErrDomain,
		model.ErrInsufficientData,
	} {
		if errors.Is(err, clientErr) {
			status = http.StatusBadRequest
			break
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
