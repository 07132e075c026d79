package graph

import (
	"errors"
	"math"
)

// ErrNegativeWeight is returned by AddEdge for negative or NaN weights.
var ErrNegativeWeight = errors.New("edge weight must be non-negative")

// Graph is an undirected weighted graph over named vertices.
//
// Vertex IDs are dense and assigned in first-seen order starting at 0, so
// per-vertex data lives in slices indexed by ID. The graph is built once and
// then only read; it is safe for concurrent readers once building is done.
type Graph struct {
	nameToID map[string]uint32
	names    []string             // len: NumVertices; inverse of nameToID
	adj      []map[uint32]float64 // len: NumVertices; neighbor ID -> weight
	coords   [][2]float64         // len: NumVertices; {lat, lng}, zero if unknown
	hasCoord []bool
	numEdges uint32
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nameToID: make(map[string]uint32)}
}

// AddVertex returns the ID of name, allocating the next ID if name is new.
func (g *Graph) AddVertex(name string) uint32 {
	if id, ok := g.nameToID[name]; ok {
		return id
	}
	id := uint32(len(g.names))
	g.nameToID[name] = id
	g.names = append(g.names, name)
	g.adj = append(g.adj, make(map[uint32]float64))
	g.coords = append(g.coords, [2]float64{})
	g.hasCoord = append(g.hasCoord, false)
	return id
}

// AddLocation adds (or finds) a vertex and records its coordinates.
// Coordinates of an existing vertex are kept; the first location wins.
func (g *Graph) AddLocation(name string, lat, lng float64) uint32 {
	id := g.AddVertex(name)
	if !g.hasCoord[id] {
		g.coords[id] = [2]float64{lat, lng}
		g.hasCoord[id] = true
	}
	return id
}

// AddEdge connects a and b in both directions, creating missing vertices.
// A later call for the same pair overwrites the earlier weight. Self loops
// are ignored since they can never shorten a path.
func (g *Graph) AddEdge(a, b string, weight float64) error {
	if weight < 0 || math.IsNaN(weight) {
		return ErrNegativeWeight
	}
	ida := g.AddVertex(a)
	idb := g.AddVertex(b)
	if ida == idb {
		return nil
	}
	if _, exists := g.adj[ida][idb]; !exists {
		g.numEdges++
	}
	g.adj[ida][idb] = weight
	g.adj[idb][ida] = weight
	return nil
}

// ID returns the vertex ID for name.
func (g *Graph) ID(name string) (uint32, bool) {
	id, ok := g.nameToID[name]
	return id, ok
}

// Name returns the name of vertex id. It panics if id is out of range.
func (g *Graph) Name(id uint32) string {
	return g.names[id]
}

// Names returns vertex names in ID order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Weight returns the weight of edge a-b, if present.
func (g *Graph) Weight(a, b uint32) (float64, bool) {
	if int(a) >= len(g.adj) {
		return 0, false
	}
	w, ok := g.adj[a][b]
	return w, ok
}

// Neighbors returns the neighbor map of vertex id. Callers must not modify it.
func (g *Graph) Neighbors(id uint32) map[uint32]float64 {
	return g.adj[id]
}

// Coord returns the {lat, lng} of vertex id and whether it is known.
func (g *Graph) Coord(id uint32) (lat, lng float64, ok bool) {
	if int(id) >= len(g.coords) || !g.hasCoord[id] {
		return 0, 0, false
	}
	return g.coords[id][0], g.coords[id][1], true
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() uint32 {
	return uint32(len(g.names))
}

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() uint32 {
	return g.numEdges
}
