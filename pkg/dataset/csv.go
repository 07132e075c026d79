package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"city_router/pkg/geo"
)

var (
	// ErrMissingColumn is returned when the CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidCoord is returned for a row whose coordinates are not finite
	// or out of range.
	ErrInvalidCoord = errors.New("invalid coordinates")
)

// nameColumns are tried in order; the first present one supplies the name.
var nameColumns = []string{"city", "city_ascii", "name"}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(path string, f Filter) ([]Location, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	locs, err := LoadCSV(file, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return locs, nil
}

// LoadCSV reads a header-first CSV table with a name column (city,
// city_ascii or name), lat and lng, plus an optional country column.
// Rows not matching f are skipped. Duplicate names keep the first row.
func LoadCSV(r io.Reader, f Filter) ([]Location, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}

	nameIdx := -1
	for _, c := range nameColumns {
		if i, ok := cols[c]; ok {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: city", ErrMissingColumn)
	}
	latIdx, ok := cols["lat"]
	if !ok {
		return nil, fmt.Errorf("%w: lat", ErrMissingColumn)
	}
	lngIdx, ok := cols["lng"]
	if !ok {
		if lngIdx, ok = cols["lon"]; !ok {
			return nil, fmt.Errorf("%w: lng", ErrMissingColumn)
		}
	}
	countryIdx, hasCountry := cols["country"]
	if f.Country != "" && !hasCountry {
		return nil, fmt.Errorf("%w: country", ErrMissingColumn)
	}

	var locs []Location
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		var country string
		if hasCountry {
			country = field(countryIdx)
		}
		if !f.keep(country) {
			continue
		}

		name := field(nameIdx)
		if name == "" {
			return nil, fmt.Errorf("line %d: empty name", line)
		}
		lat, err := strconv.ParseFloat(field(latIdx), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse lat: %w", line, err)
		}
		lng, err := strconv.ParseFloat(field(lngIdx), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse lng: %w", line, err)
		}
		if !geo.ValidCoord(lat, lng) {
			return nil, fmt.Errorf("line %d: (%v, %v): %w", line, lat, lng, ErrInvalidCoord)
		}

		locs = append(locs, Location{Name: name, Country: country, Lat: lat, Lng: lng})
	}

	return Dedupe(locs), nil
}
