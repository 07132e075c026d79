// Package dataset loads named locations from tabular city data.
package dataset

import (
	"strings"

	"github.com/paulmach/orb"
)

// Location is a named point, usually a city.
type Location struct {
	Name    string
	Country string
	Lat     float64
	Lng     float64
}

// Point returns the location as an orb point (lng, lat order).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// Filter selects which rows are kept by the loaders.
type Filter struct {
	Country string // case-insensitive exact match; empty keeps all
}

func (f Filter) keep(country string) bool {
	if f.Country == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(country), strings.TrimSpace(f.Country))
}

// Dedupe drops later locations that reuse an earlier name.
func Dedupe(locs []Location) []Location {
	seen := make(map[string]struct{}, len(locs))
	out := locs[:0:0]
	for _, l := range locs {
		if _, ok := seen[l.Name]; ok {
			continue
		}
		seen[l.Name] = struct{}{}
		out = append(out, l)
	}
	return out
}
