package ws

import (
	"encoding/json"

	"demand_generator/internal/generator"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeProfileElectrical = "profile:electrical"
	TypeProfileHeat       = "profile:heat"
	TypeProfileVDI        = "profile:vdi"
	TypeProfileIndustrial = "profile:industrial"

	// Server -> Client
	TypeCatalog        = "catalog"
	TypeSeriesChunk    = "series:chunk"
	TypeSeriesProgress = "series:progress"
	TypeSeriesDone     = "series:done"
	TypeError          = "error"
)

// Client -> Server messages. The optional id is echoed on every message of
// the resulting stream so clients can tell streams apart.

type ElectricalRequestPayload struct {
	ID string `json:"id,omitempty"`
	generator.ElectricalRequest
}

type HeatRequestPayload struct {
	ID string `json:"id,omitempty"`
	generator.HeatRequest
}

type VDIRequestPayload struct {
	ID string `json:"id,omitempty"`
	generator.VDIRequest
}

type IndustrialRequestPayload struct {
	ID string `json:"id,omitempty"`
	generator.IndustrialRequest
}

// Server -> Client messages

type WeatherRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CatalogPayload announces the available profiles and loaded input data on
// connect. Weather is nil when no weather record was loaded.
type CatalogPayload struct {
	ElectricalProfiles []string          `json:"electrical_profiles"`
	HeatProfiles       []string          `json:"heat_profiles"`
	HouseTypes         []string          `json:"house_types"`
	Weather            *WeatherRangeInfo `json:"weather,omitempty"`
	Holidays           int               `json:"holidays"`
}

type ChunkPayload struct {
	ID string `json:"id,omitempty"`
	generator.SeriesChunk
}

type ProgressPayload struct {
	ID    string `json:"id,omitempty"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

type DonePayload struct {
	ID string `json:"id,omitempty"`
	generator.Summary
}

type ErrorPayload struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
