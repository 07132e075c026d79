// Package render turns a graph and a composed route into map artifacts.
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"city_router/pkg/graph"
	"city_router/pkg/routing"
)

// Feature kinds, stored in the "kind" property.
const (
	KindCity  = "city"
	KindStop  = "stop"
	KindEdge  = "edge"
	KindRoute = "route"
)

// Options configures GeoJSON.
type Options struct {
	AllEdges  bool // include every graph edge, not just the route
	NoCities  bool // omit city points that are not on the route
	RouteOnly bool // emit only the route line and its stops
}

// GeoJSON builds a feature collection with the graph's located vertices,
// optionally its edges, the route line and one numbered point per stop.
// Vertices without coordinates are skipped. route may be nil.
func GeoJSON(g *graph.Graph, route *routing.Route, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if !opts.RouteOnly {
		onRoute := make(map[string]bool)
		if route != nil {
			for _, name := range route.Path {
				onRoute[name] = true
			}
		}

		for id := uint32(0); id < g.NumVertices(); id++ {
			name := g.Name(id)
			if opts.NoCities && !onRoute[name] {
				continue
			}
			p, ok := point(g, id)
			if !ok {
				continue
			}
			f := geojson.NewFeature(p)
			f.Properties["kind"] = KindCity
			f.Properties["name"] = name
			f.Properties["on_route"] = onRoute[name]
			fc.Append(f)
		}

		if opts.AllEdges {
			appendEdges(fc, g)
		}
	}

	if route != nil {
		appendRoute(fc, g, route)
	}

	return fc
}

// appendEdges adds each undirected edge once, lower ID first.
func appendEdges(fc *geojson.FeatureCollection, g *graph.Graph) {
	for u := uint32(0); u < g.NumVertices(); u++ {
		pu, ok := point(g, u)
		if !ok {
			continue
		}
		for v, w := range g.Neighbors(u) {
			if v < u {
				continue
			}
			pv, ok := point(g, v)
			if !ok {
				continue
			}
			f := geojson.NewFeature(orb.LineString{pu, pv})
			f.Properties["kind"] = KindEdge
			f.Properties["from"] = g.Name(u)
			f.Properties["to"] = g.Name(v)
			f.Properties["weight_km"] = w
			fc.Append(f)
		}
	}
}

func appendRoute(fc *geojson.FeatureCollection, g *graph.Graph, route *routing.Route) {
	line := make(orb.LineString, 0, len(route.Path))
	for i, name := range route.Path {
		id, ok := g.ID(name)
		if !ok {
			continue
		}
		p, ok := point(g, id)
		if !ok {
			continue
		}
		line = append(line, p)

		f := geojson.NewFeature(p)
		f.Properties["kind"] = KindStop
		f.Properties["name"] = name
		f.Properties["stop"] = i + 1
		fc.Append(f)
	}

	if len(line) < 2 {
		return
	}
	f := geojson.NewFeature(line)
	f.Properties["kind"] = KindRoute
	f.Properties["total_distance_km"] = route.TotalDistance
	f.Properties["segments"] = len(route.Segments)
	f.Properties["stops"] = len(route.Path)
	fc.Append(f)
}

func point(g *graph.Graph, id uint32) (orb.Point, bool) {
	lat, lng, ok := g.Coord(id)
	if !ok {
		return orb.Point{}, false
	}
	return orb.Point{lng, lat}, true
}
