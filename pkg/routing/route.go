package routing

import (
	"errors"
	"fmt"

	"city_router/pkg/graph"
)

// ErrNoWaypoints is returned when a route is requested with no waypoints.
var ErrNoWaypoints = errors.New("no waypoints")

// Segment is the shortest path between two consecutive waypoints.
type Segment struct {
	From     string
	To       string
	Path     []string // From ... To inclusive
	Distance float64
}

// Route is a chain of segments through the waypoints in the given order.
type Route struct {
	Path          []string // every vertex visited, junctions listed once
	TotalDistance float64
	Segments      []Segment
}

// ComposeRoute chains shortest paths between consecutive waypoints.
// The first failing segment aborts the whole route.
func ComposeRoute(g *graph.Graph, waypoints []string) (*Route, error) {
	if len(waypoints) == 0 {
		return nil, ErrNoWaypoints
	}
	if len(waypoints) == 1 {
		return singleStop(g, waypoints[0])
	}

	segments := make([]Segment, len(waypoints)-1)
	for i := range segments {
		seg, err := segment(g, waypoints[i], waypoints[i+1])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		segments[i] = seg
	}
	return joinSegments(segments), nil
}

// segment computes one waypoint-to-waypoint shortest path.
func segment(g *graph.Graph, from, to string) (Segment, error) {
	tree, err := ShortestPaths(g, from)
	if err != nil {
		return Segment{}, err
	}
	path, err := ReconstructPath(g, from, to, tree)
	if err != nil {
		return Segment{}, err
	}
	target, _ := g.ID(to)
	return Segment{
		From:     from,
		To:       to,
		Path:     path,
		Distance: tree.DistanceTo(target),
	}, nil
}

func singleStop(g *graph.Graph, name string) (*Route, error) {
	if _, ok := g.ID(name); !ok {
		return nil, fmt.Errorf("waypoint %q: %w", name, ErrVertexNotFound)
	}
	return &Route{Path: []string{name}}, nil
}

// joinSegments concatenates segment paths, dropping each later segment's
// first vertex since it repeats the previous segment's last.
func joinSegments(segments []Segment) *Route {
	r := &Route{Segments: segments}
	for i, seg := range segments {
		if i == 0 {
			r.Path = append(r.Path, seg.Path...)
		} else {
			r.Path = append(r.Path, seg.Path[1:]...)
		}
		r.TotalDistance += seg.Distance
	}
	return r
}
