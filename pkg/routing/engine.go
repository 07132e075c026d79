package routing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"city_router/pkg/graph"
)

// ErrInvalidWaypoint is returned for a waypoint with neither a name nor a point.
var ErrInvalidWaypoint = errors.New("waypoint needs a name or a point")

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Waypoint is a stop given either by vertex name or by a coordinate that is
// snapped to the nearest vertex. Name wins when both are set.
type Waypoint struct {
	Name  string
	Point *LatLng
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, waypoints []Waypoint) (*Route, error)
}

// Engine implements Router over a built graph.
//
// The graph must not be modified once the engine is created: segments are
// computed concurrently and read it without locking.
type Engine struct {
	g       *graph.Graph
	snapper *Snapper
	workers int
}

// EngineOptions configures NewEngine.
type EngineOptions struct {
	MaxSnapKm float64 // snap radius for coordinate waypoints; <= 0 uses DefaultMaxSnapKm
	Workers   int     // concurrent segments; <= 0 uses GOMAXPROCS
}

// NewEngine creates a routing engine for g.
func NewEngine(g *graph.Graph, opts ...EngineOptions) *Engine {
	var opt EngineOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		g:       g,
		snapper: NewSnapper(g, opt.MaxSnapKm),
		workers: workers,
	}
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Locate returns the coordinate of the named vertex, if it has one.
func (e *Engine) Locate(name string) (LatLng, bool) {
	id, ok := e.g.ID(name)
	if !ok {
		return LatLng{}, false
	}
	lat, lng, ok := e.g.Coord(id)
	return LatLng{Lat: lat, Lng: lng}, ok
}

// Resolve maps a waypoint to a vertex name.
func (e *Engine) Resolve(w Waypoint) (string, error) {
	if w.Name != "" {
		if _, ok := e.g.ID(w.Name); !ok {
			return "", fmt.Errorf("waypoint %q: %w", w.Name, ErrVertexNotFound)
		}
		return w.Name, nil
	}
	if w.Point == nil {
		return "", ErrInvalidWaypoint
	}
	snap, err := e.snapper.Snap(w.Point.Lat, w.Point.Lng)
	if err != nil {
		return "", fmt.Errorf("waypoint (%.5f, %.5f): %w", w.Point.Lat, w.Point.Lng, err)
	}
	return snap.Name, nil
}

// Route resolves waypoints and composes the route through them.
//
// Segments run concurrently, at most e.workers at a time. The result and
// the error kind match ComposeRoute: a waypoint that fails to resolve fails
// the segments that touch it, and the failing segment earliest in the route
// is reported.
func (e *Engine) Route(ctx context.Context, waypoints []Waypoint) (*Route, error) {
	if len(waypoints) == 0 {
		return nil, ErrNoWaypoints
	}

	names := make([]string, len(waypoints))
	resolveErrs := make([]error, len(waypoints))
	for i, w := range waypoints {
		names[i], resolveErrs[i] = e.Resolve(w)
	}
	if len(names) == 1 {
		if resolveErrs[0] != nil {
			return nil, resolveErrs[0]
		}
		return singleStop(e.g, names[0])
	}

	segments := make([]Segment, len(names)-1)
	errs := make([]error, len(segments))

	var eg errgroup.Group
	eg.SetLimit(e.workers)
	for i := range segments {
		// Source before target, as ShortestPaths then ReconstructPath check them.
		if err := cmp.Or(resolveErrs[i], resolveErrs[i+1]); err != nil {
			errs[i] = err
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			segments[i], errs[i] = segment(e.g, names[i], names[i+1])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
	}
	return joinSegments(segments), nil
}

// RouteNames is a convenience wrapper for name-only waypoints.
func (e *Engine) RouteNames(ctx context.Context, names []string) (*Route, error) {
	waypoints := make([]Waypoint, len(names))
	for i, n := range names {
		waypoints[i] = Waypoint{Name: n}
	}
	return e.Route(ctx, waypoints)
}
