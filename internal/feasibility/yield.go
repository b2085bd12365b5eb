package feasibility

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/jgoulah/feasibility/pkg/models"
)

// recordShape is the layout of a single per-timestep record. The provider has
// sent both layouts in practice, so the first record decides which one the
// whole series is read as.
type recordShape int

const (
	shapeUnrecognized recordShape = iota
	shapeStructured               // {"electricity": 0.42, ...}
	shapeBareNumeric              // 0.42
)

func (s recordShape) String() string {
	switch s {
	case shapeStructured:
		return "structured record"
	case shapeBareNumeric:
		return "bare number"
	default:
		return "unrecognized"
	}
}

type structuredRecord struct {
	Electricity *float64 `json:"electricity"`
}

// decodeRecord reads a record as a structured record, then as a bare number,
// and reports which shape matched
func decodeRecord(v jsontext.Value) (recordShape, float64) {
	var rec structuredRecord
	if err := json.Unmarshal(v, &rec); err == nil && rec.Electricity != nil {
		return shapeStructured, *rec.Electricity
	}

	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return shapeBareNumeric, f
	}

	return shapeUnrecognized, 0
}

// ExtractSeries converts the provider's records into a generation series in
// provider key order. Empty or unparseable input yields an empty series and a
// warning; it is never an error.
func ExtractSeries(raw models.RawSeries, tech models.Technology) ([]float64, *models.Warning) {
	if len(raw) == 0 {
		return nil, &models.Warning{
			Technology: tech,
			Kind:       models.WarnNoData,
			Message:    fmt.Sprintf("No data returned for %s.", tech),
		}
	}

	shape, _ := decodeRecord(raw[0].Value)
	if shape == shapeUnrecognized {
		return nil, unexpectedShape(tech, raw[0])
	}

	series := make([]float64, 0, len(raw))
	for _, rec := range raw {
		s, v := decodeRecord(rec.Value)
		if s != shape {
			return nil, unexpectedShape(tech, rec)
		}
		series = append(series, v)
	}

	return series, nil
}

func unexpectedShape(tech models.Technology, rec models.RawRecord) *models.Warning {
	return &models.Warning{
		Technology: tech,
		Kind:       models.WarnUnexpectedShape,
		Message:    fmt.Sprintf("Unexpected format in %s data at %q", tech, rec.Key),
		Sample:     string(rec.Value),
	}
}

// Sum adds up a series in order
func Sum(series []float64) float64 {
	var total float64
	for _, v := range series {
		total += v
	}
	return total
}

// Aggregate reduces the provider's records to an annual yield per unit of
// installed capacity
func Aggregate(raw models.RawSeries, tech models.Technology) (float64, []models.Warning) {
	series, warn := ExtractSeries(raw, tech)
	if warn != nil {
		return 0, []models.Warning{*warn}
	}
	return Sum(series), nil
}
