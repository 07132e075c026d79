package graph

import (
	"fmt"

	"city_router/pkg/dataset"
	"city_router/pkg/geo"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Distance  geo.DistanceFunc // nil = geo.Haversine
	MaxEdgeKm float64          // if > 0, only pairs at most this far apart are connected
}

// Build creates a Graph from locations, connecting every pair of distinct
// locations with an edge weighted by the distance function.
func Build(locs []dataset.Location, opts ...BuildOptions) (*Graph, error) {
	var opt BuildOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	dist := opt.Distance
	if dist == nil {
		dist = geo.Haversine
	}

	g := New()

	// Step 1: Register vertices in input order so IDs follow the dataset.
	for _, l := range locs {
		g.AddLocation(l.Name, l.Lat, l.Lng)
	}

	// Step 2: Connect pairs. IDs, not input rows, so duplicate names
	// resolve to their first location.
	n := g.NumVertices()
	for a := uint32(0); a < n; a++ {
		aLat, aLng, _ := g.Coord(a)
		for b := a + 1; b < n; b++ {
			bLat, bLng, _ := g.Coord(b)
			w := dist(aLat, aLng, bLat, bLng)
			if opt.MaxEdgeKm > 0 && w > opt.MaxEdgeKm {
				continue
			}
			if err := g.AddEdge(g.names[a], g.names[b], w); err != nil {
				return nil, fmt.Errorf("edge %q-%q: %w", g.names[a], g.names[b], err)
			}
		}
	}

	return g, nil
}
