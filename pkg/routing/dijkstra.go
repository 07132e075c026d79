package routing

import (
	"errors"
	"fmt"
	"math"

	"city_router/pkg/graph"
)

var (
	// ErrVertexNotFound is returned when a source, target or waypoint name
	// is not a vertex of the graph.
	ErrVertexNotFound = errors.New("vertex not found")
	// ErrNoPath is returned when the target cannot be traced back to the source.
	ErrNoPath = errors.New("no path found")
)

// NoVertex marks "no predecessor" in a Tree.
const NoVertex = ^uint32(0)

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist float64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// Tree is the single-source shortest-path result.
type Tree struct {
	Source uint32
	Dist   []float64 // len: NumVertices; +Inf if unreachable
	Pred   []uint32  // len: NumVertices; NoVertex for the source and unreached vertices
}

// DistanceTo returns the shortest distance from the source to id.
func (t *Tree) DistanceTo(id uint32) float64 {
	return t.Dist[id]
}

// Reachable reports whether id was reached from the source.
func (t *Tree) Reachable(id uint32) bool {
	return !math.IsInf(t.Dist[id], 1)
}

// ShortestPaths runs Dijkstra from sourceName over g.
// Stale heap entries are skipped on pop instead of being decreased in place.
func ShortestPaths(g *graph.Graph, sourceName string) (*Tree, error) {
	source, ok := g.ID(sourceName)
	if !ok {
		return nil, fmt.Errorf("source %q: %w", sourceName, ErrVertexNotFound)
	}

	n := g.NumVertices()
	dist := make([]float64, n)
	pred := make([]uint32, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = NoVertex
	}
	dist[source] = 0

	pq := MinHeap{items: make([]PQItem, 0, 64)}
	pq.Push(source, 0)

	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.Node
		d := item.Dist

		if d > dist[u] {
			continue // stale entry
		}

		for v, w := range g.Neighbors(u) {
			candidate := d + w
			if candidate < dist[v] {
				dist[v] = candidate
				pred[v] = u
				pq.Push(v, candidate)
			}
		}
	}

	return &Tree{Source: source, Dist: dist, Pred: pred}, nil
}

// ReconstructPath walks tree's predecessors back from targetName and returns
// the vertex names from sourceName to targetName inclusive.
func ReconstructPath(g *graph.Graph, sourceName, targetName string, tree *Tree) ([]string, error) {
	target, ok := g.ID(targetName)
	if !ok {
		return nil, fmt.Errorf("target %q: %w", targetName, ErrVertexNotFound)
	}
	source, ok := g.ID(sourceName)
	if !ok {
		return nil, fmt.Errorf("source %q: %w", sourceName, ErrVertexNotFound)
	}
	if int(target) >= len(tree.Pred) {
		return nil, fmt.Errorf("%q to %q: %w", sourceName, targetName, ErrNoPath)
	}

	// A valid tree has at most NumVertices entries on any chain; a longer
	// walk means the predecessors form a cycle.
	limit := len(tree.Pred)
	var ids []uint32
	for node := target; node != NoVertex; node = tree.Pred[node] {
		if len(ids) >= limit || int(node) >= len(tree.Pred) {
			return nil, fmt.Errorf("%q to %q: %w", sourceName, targetName, ErrNoPath)
		}
		ids = append(ids, node)
	}

	// Reverse to get source -> target.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	if ids[0] != source {
		return nil, fmt.Errorf("%q to %q: %w", sourceName, targetName, ErrNoPath)
	}

	path := make([]string, len(ids))
	for i, id := range ids {
		path[i] = g.Name(id)
	}
	return path, nil
}
