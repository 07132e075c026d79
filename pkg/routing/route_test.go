package routing

import (
	"errors"
	"testing"

	"city_router/pkg/graph"
)

func TestComposeRouteEndToEnd(t *testing.T) {
	g := triangle(t)

	route, err := ComposeRoute(g, []string{"A", "C"})
	if err != nil {
		t.Fatalf("ComposeRoute: %v", err)
	}
	want := []string{"A", "B", "C"}
	if !equalPath(route.Path, want) {
		t.Errorf("Path = %v, want %v", route.Path, want)
	}
	if route.TotalDistance != 3.0 {
		t.Errorf("TotalDistance = %v, want 3.0", route.TotalDistance)
	}
	if len(route.Segments) != 1 {
		t.Fatalf("Segments = %d, want 1", len(route.Segments))
	}
	if s := route.Segments[0]; s.From != "A" || s.To != "C" || s.Distance != 3.0 {
		t.Errorf("segment = %+v", s)
	}
}

func TestComposeRouteJunctionDedup(t *testing.T) {
	g := graph.New()
	mustEdge(t, g, "A", "B", 1)
	mustEdge(t, g, "B", "C", 2)

	route, err := ComposeRoute(g, []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("ComposeRoute: %v", err)
	}
	want := []string{"A", "B", "C"}
	if !equalPath(route.Path, want) {
		t.Errorf("Path = %v, want %v", route.Path, want)
	}
	if route.TotalDistance != 3 {
		t.Errorf("TotalDistance = %v, want 3", route.TotalDistance)
	}
	if len(route.Segments) != 2 {
		t.Errorf("Segments = %d, want 2", len(route.Segments))
	}
}

func TestComposeRouteRevisits(t *testing.T) {
	g := triangle(t)

	// A -> C -> A goes out and back through B; junction C appears once.
	route, err := ComposeRoute(g, []string{"A", "C", "A"})
	if err != nil {
		t.Fatalf("ComposeRoute: %v", err)
	}
	want := []string{"A", "B", "C", "B", "A"}
	if !equalPath(route.Path, want) {
		t.Errorf("Path = %v, want %v", route.Path, want)
	}
	if route.TotalDistance != 6 {
		t.Errorf("TotalDistance = %v, want 6", route.TotalDistance)
	}
}

func TestComposeRouteRepeatedWaypoint(t *testing.T) {
	g := triangle(t)

	route, err := ComposeRoute(g, []string{"A", "A", "B"})
	if err != nil {
		t.Fatalf("ComposeRoute: %v", err)
	}
	want := []string{"A", "B"}
	if !equalPath(route.Path, want) {
		t.Errorf("Path = %v, want %v", route.Path, want)
	}
	if route.TotalDistance != 1 {
		t.Errorf("TotalDistance = %v, want 1", route.TotalDistance)
	}
}

func TestComposeRouteSingleWaypoint(t *testing.T) {
	g := triangle(t)

	route, err := ComposeRoute(g, []string{"B"})
	if err != nil {
		t.Fatalf("ComposeRoute: %v", err)
	}
	if !equalPath(route.Path, []string{"B"}) || route.TotalDistance != 0 {
		t.Errorf("route = %+v, want [B] with 0 distance", route)
	}
	if len(route.Segments) != 0 {
		t.Errorf("Segments = %d, want 0", len(route.Segments))
	}

	if _, err := ComposeRoute(g, []string{"Nowhere"}); !errors.Is(err, ErrVertexNotFound) {
		t.Errorf("err = %v, want ErrVertexNotFound", err)
	}
}

func TestComposeRouteErrors(t *testing.T) {
	g := triangle(t)
	mustEdge(t, g, "D", "E", 1)

	tests := []struct {
		name      string
		waypoints []string
		want      error
	}{
		{name: "empty", waypoints: nil, want: ErrNoWaypoints},
		{name: "unknown source", waypoints: []string{"X", "A"}, want: ErrVertexNotFound},
		{name: "unknown target", waypoints: []string{"A", "X"}, want: ErrVertexNotFound},
		{name: "unreachable", waypoints: []string{"A", "D"}, want: ErrNoPath},
		{name: "later segment fails", waypoints: []string{"A", "C", "E"}, want: ErrNoPath},
		// The first broken segment decides the error.
		{name: "first failure wins", waypoints: []string{"A", "E", "X"}, want: ErrNoPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := ComposeRoute(g, tt.waypoints)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if route != nil {
				t.Errorf("route = %+v, want nil on failure", route)
			}
		})
	}
}
