package ninja

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/jgoulah/feasibility/pkg/models"
)

// DecodeData reads a renewables.ninja JSON response and returns the records
// of its "data" object in the order they appear in the response. A response
// without a "data" member yields an empty series. A repeated record key keeps
// its first position and takes the last value.
func DecodeData(r io.Reader) (models.RawSeries, error) {
	dec := jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if tok.Kind() != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok.Kind())
	}

	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return nil, fmt.Errorf("reading member name: %w", err)
		}
		if name.String() != "data" {
			if err := dec.SkipValue(); err != nil {
				return nil, fmt.Errorf("skipping %q: %w", name.String(), err)
			}
			continue
		}
		return readRecords(dec)
	}

	return nil, nil
}

// readRecords reads the value of "data". Anything other than an object is
// kept as a single record so the aggregator can report it with its payload.
func readRecords(dec *jsontext.Decoder) (models.RawSeries, error) {
	switch dec.PeekKind() {
	case 'n':
		if err := dec.SkipValue(); err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		return nil, nil
	case '{':
	default:
		val, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		return models.RawSeries{{Key: "data", Value: jsontext.Value(bytes.Clone(val))}}, nil
	}

	if _, err := dec.ReadToken(); err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	var series models.RawSeries
	seen := make(map[string]int)
	for dec.PeekKind() != '}' {
		key, err := dec.ReadToken()
		if err != nil {
			return nil, fmt.Errorf("reading record key: %w", err)
		}
		val, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("reading record %q: %w", key.String(), err)
		}
		// ReadValue's result is only valid until the next read
		rec := models.RawRecord{Key: key.String(), Value: jsontext.Value(bytes.Clone(val))}
		if i, ok := seen[rec.Key]; ok {
			series[i] = rec
			continue
		}
		seen[rec.Key] = len(series)
		series = append(series, rec)
	}

	return series, nil
}
