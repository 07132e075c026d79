package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"city_router/pkg/dataset"
	"city_router/pkg/geo"
)

// DefaultPlaces lists the place tag values kept when ParseOptions.Places is empty.
var DefaultPlaces = []string{"city", "town"}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only places inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Bound returns the box as an orb.Bound (lng, lat order).
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLng, b.MinLat},
		Max: orb.Point{b.MaxLng, b.MaxLat},
	}
}

// Contains returns true if the point is inside the bounding box, edges included.
func (b BBox) Contains(lat, lng float64) bool {
	return b.Bound().Contains(orb.Point{lng, lat})
}

// ParseBBox parses "minLat,minLng,maxLat,maxLng".
func ParseBBox(s string) (BBox, error) {
	var b BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return BBox{}, fmt.Errorf("invalid bbox %q (expected minLat,minLng,maxLat,maxLng): %w", s, err)
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return BBox{}, fmt.Errorf("invalid bbox %q: min exceeds max", s)
	}
	return b, nil
}

// ParseOptions configures the OSM place parser.
type ParseOptions struct {
	BBox    BBox     // if non-zero, filter places to this bounding box
	Places  []string // accepted place=* values; empty means DefaultPlaces
	Country string   // if set, keep only nodes whose is_in:country or addr:country matches
}

// placeFilter decides whether a node is a usable named place.
type placeFilter struct {
	places  map[string]bool
	country string
}

func newPlaceFilter(opt ParseOptions) placeFilter {
	values := opt.Places
	if len(values) == 0 {
		values = DefaultPlaces
	}
	places := make(map[string]bool, len(values))
	for _, v := range values {
		places[v] = true
	}
	return placeFilter{places: places, country: opt.Country}
}

// accept returns the place name and true if the tags describe a kept place.
func (f placeFilter) accept(tags osm.Tags) (string, bool) {
	if !f.places[tags.Find("place")] {
		return "", false
	}
	name := tags.Find("name")
	if name == "" {
		return "", false
	}
	if f.country != "" && !matchesCountry(tags, f.country) {
		return "", false
	}
	return name, true
}

// verdict says why check rejected a node.
type verdict int

const (
	keepPlace verdict = iota
	skipTags
	skipInvalid
	skipBBox
)

// check converts an accepted place node to a Location. Nodes with invalid
// coordinates or outside a non-zero bbox are rejected.
func (f placeFilter) check(n *osm.Node, bbox BBox) (dataset.Location, verdict) {
	name, ok := f.accept(n.Tags)
	if !ok {
		return dataset.Location{}, skipTags
	}
	if !geo.ValidCoord(n.Lat, n.Lon) {
		return dataset.Location{}, skipInvalid
	}
	if !bbox.IsZero() && !bbox.Contains(n.Lat, n.Lon) {
		return dataset.Location{}, skipBBox
	}
	return dataset.Location{
		Name:    name,
		Country: n.Tags.Find("is_in:country"),
		Lat:     n.Lat,
		Lng:     n.Lon,
	}, keepPlace
}

// matchesCountry checks the country tags OSM places commonly carry.
func matchesCountry(tags osm.Tags, country string) bool {
	for _, key := range []string{"is_in:country", "addr:country", "is_in:country_code"} {
		if v := tags.Find(key); v != "" && strings.EqualFold(v, country) {
			return true
		}
	}
	return false
}

// ParsePlaces reads an OSM PBF stream and returns named place nodes as
// locations, in file order. Duplicate names keep the first node.
func ParsePlaces(ctx context.Context, r io.Reader, opts ...ParseOptions) ([]dataset.Location, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	filter := newPlaceFilter(opt)

	scanner := osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	var locs []dataset.Location
	var bboxFiltered, invalid int

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}

		loc, v := filter.check(n, opt.BBox)
		switch v {
		case skipTags:
			continue
		case skipInvalid:
			invalid++
			continue
		case skipBBox:
			bboxFiltered++
			continue
		}

		locs = append(locs, loc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes: %w", err)
	}

	if invalid > 0 {
		log.Printf("Skipped %d places with invalid coordinates", invalid)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d places outside bounding box", bboxFiltered)
	}
	locs = dataset.Dedupe(locs)
	log.Printf("Parsed %d places", len(locs))

	return locs, nil
}

// ParsePlacesFile opens an .osm.pbf file and parses it with ParsePlaces.
func ParsePlacesFile(ctx context.Context, path string, opts ...ParseOptions) ([]dataset.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	locs, err := ParsePlaces(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return locs, nil
}
