package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"city_router/pkg/geo"
	"city_router/pkg/graph"
)

// DefaultMaxSnapKm is the snap radius used when none is configured.
const DefaultMaxSnapKm = 50.0

// ErrPointTooFar is returned when no vertex lies within the snap radius.
var ErrPointTooFar = errors.New("point too far from any location")

// kmPerDegree is the length of one degree of latitude.
const kmPerDegree = math.Pi / 180 * 6371.0

// Initial search half-width in degrees; doubled until a match is certain.
const initialSearchDeg = 0.25

// SnapResult is the vertex nearest to a query point.
type SnapResult struct {
	Vertex uint32
	Name   string
	DistKm float64
}

// Snapper finds the vertex nearest to a coordinate using an R-tree over
// vertex positions. Vertices without coordinates are not indexed.
type Snapper struct {
	tr    rtree.RTreeG[uint32]
	g     *graph.Graph
	maxKm float64
}

// NewSnapper indexes every located vertex of g. maxKm <= 0 uses DefaultMaxSnapKm.
func NewSnapper(g *graph.Graph, maxKm float64) *Snapper {
	if maxKm <= 0 {
		maxKm = DefaultMaxSnapKm
	}
	s := &Snapper{g: g, maxKm: maxKm}
	for id := uint32(0); id < g.NumVertices(); id++ {
		lat, lng, ok := g.Coord(id)
		if !ok {
			continue
		}
		pt := [2]float64{lng, lat}
		s.tr.Insert(pt, pt, id)
	}
	return s
}

// Len returns the number of indexed vertices.
func (s *Snapper) Len() int {
	return s.tr.Len()
}

// Snap returns the nearest vertex to lat/lng within the snap radius.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	if s.tr.Len() == 0 {
		return SnapResult{}, ErrPointTooFar
	}

	// Grow a lat/lng box around the point. A hit is final once it is no
	// farther than the box's inscribed radius, since anything outside the
	// box is at least that far away.
	for r := initialSearchDeg; ; r *= 2 {
		minLat := math.Max(lat-r, -90)
		maxLat := math.Min(lat+r, 90)
		cosMin := math.Min(math.Cos(minLat*math.Pi/180), math.Cos(maxLat*math.Pi/180))
		rLng := 360.0
		if cosMin > 1e-6 {
			rLng = math.Min(r/cosMin, 360)
		}

		best := SnapResult{DistKm: math.Inf(1)}
		visit := func(min, _ [2]float64, id uint32) bool {
			d := geo.Haversine(lat, lng, min[1], min[0])
			if d < best.DistKm {
				best = SnapResult{Vertex: id, DistKm: d}
			}
			return true
		}
		for _, span := range lngSpans(lng-rLng, lng+rLng) {
			s.tr.Search([2]float64{span[0], minLat}, [2]float64{span[1], maxLat}, visit)
		}

		inscribedKm := r * kmPerDegree
		worldCovered := r >= 180
		if best.DistKm <= inscribedKm || worldCovered {
			if best.DistKm > s.maxKm {
				return SnapResult{}, ErrPointTooFar
			}
			best.Name = s.g.Name(best.Vertex)
			return best, nil
		}
		if inscribedKm > s.maxKm {
			return SnapResult{}, ErrPointTooFar
		}
	}
}

// lngSpans splits [lo, hi] into spans inside [-180, 180], wrapping the
// parts that cross the antimeridian.
func lngSpans(lo, hi float64) [][2]float64 {
	if hi-lo >= 360 {
		return [][2]float64{{-180, 180}}
	}
	spans := [][2]float64{{math.Max(lo, -180), math.Min(hi, 180)}}
	if lo < -180 {
		spans = append(spans, [2]float64{lo + 360, 180})
	}
	if hi > 180 {
		spans = append(spans, [2]float64{-180, hi - 360})
	}
	return spans
}
