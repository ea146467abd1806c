package ingest

import (
	"io"

	"demand_generator/internal/model"
)

// Parser reads a weather record from a source.
type Parser interface {
	Parse(r io.Reader) (model.WeatherSeries, error)
}
