// Package loader turns a configured data source into a routing graph.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"city_router/pkg/dataset"
	"city_router/pkg/geo"
	"city_router/pkg/graph"
	"city_router/pkg/obs"
	osmparser "city_router/pkg/osm"
)

// ErrNoSource is returned when neither a CSV nor a PBF path is set.
var ErrNoSource = errors.New("no data source configured")

// Source selects where locations come from. PBFPath wins over CSVPath.
type Source struct {
	CSVPath string
	PBFPath string
	Country string
	BBox    osmparser.BBox
	Places  []string // OSM place=* values, PBF only
}

// Options configures Graph.
type Options struct {
	Metric      string  // see geo.MetricByName
	MaxEdgeKm   float64 // 0 = complete graph
	LargestOnly bool    // keep only the largest connected component
}

// SplitList splits a comma-separated flag value, trimming spaces and
// dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Locations loads the source's locations.
func Locations(ctx context.Context, src Source) (locs []dataset.Location, err error) {
	defer obs.Time(ctx, "load")(&err)

	switch {
	case src.PBFPath != "":
		log.Printf("Parsing OSM places from %s...", src.PBFPath)
		return osmparser.ParsePlacesFile(ctx, src.PBFPath, osmparser.ParseOptions{
			BBox:    src.BBox,
			Places:  src.Places,
			Country: src.Country,
		})
	case src.CSVPath != "":
		log.Printf("Loading cities from %s...", src.CSVPath)
		locs, err = dataset.LoadCSVFile(src.CSVPath, dataset.Filter{Country: src.Country})
		if err != nil {
			return nil, err
		}
		if !src.BBox.IsZero() {
			bound := src.BBox.Bound()
			kept := locs[:0]
			for _, l := range locs {
				if bound.Contains(l.Point()) {
					kept = append(kept, l)
				}
			}
			locs = kept
		}
		return locs, nil
	default:
		return nil, ErrNoSource
	}
}

// Graph loads the source and builds its graph.
func Graph(ctx context.Context, src Source, opts Options) (g *graph.Graph, err error) {
	dist, err := geo.MetricByName(opts.Metric)
	if err != nil {
		return nil, err
	}

	locs, err := Locations(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("no locations loaded (country %q)", src.Country)
	}
	log.Printf("Loaded %d locations", len(locs))

	defer obs.Time(ctx, "build", "locations", len(locs), "metric", opts.Metric)(&err)
	g, err = graph.Build(locs, graph.BuildOptions{Distance: dist, MaxEdgeKm: opts.MaxEdgeKm})
	if err != nil {
		return nil, err
	}
	log.Printf("Graph: %d vertices, %d edges", g.NumVertices(), g.NumEdges())

	if n := graph.Components(g); n > 1 {
		log.Printf("Warning: graph has %d connected components; some routes may not exist", n)
		if opts.LargestOnly {
			nodes := graph.LargestComponent(g)
			log.Printf("Largest component: %d vertices (%.1f%%)",
				len(nodes), float64(len(nodes))/float64(g.NumVertices())*100)
			g = graph.FilterToComponent(g, nodes)
		}
	}
	return g, nil
}
