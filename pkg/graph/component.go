package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the size of the set containing x.
func (uf *UnionFind) Size(x uint32) uint32 {
	return uf.size[uf.Find(x)]
}

func connect(g *Graph) *UnionFind {
	uf := NewUnionFind(g.NumVertices())
	for u := uint32(0); u < g.NumVertices(); u++ {
		for v := range g.adj[u] {
			uf.Union(u, v)
		}
	}
	return uf
}

// Components returns the number of connected components.
func Components(g *Graph) int {
	uf := connect(g)
	count := 0
	for i := uint32(0); i < g.NumVertices(); i++ {
		if uf.Find(i) == i {
			count++
		}
	}
	return count
}

// LargestComponent returns the vertex IDs of the largest connected
// component, in ascending order. Ties go to the component containing the
// lowest ID.
func LargestComponent(g *Graph) []uint32 {
	if g.NumVertices() == 0 {
		return nil
	}

	uf := connect(g)

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < g.NumVertices(); i++ {
		if size := uf.Size(i); size > bestSize {
			bestRoot = uf.Find(i)
			bestSize = size
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < g.NumVertices(); i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}

	return nodes
}

// FilterToComponent returns a new graph holding only the given vertices and
// the edges between them. Vertices keep their relative ID order.
func FilterToComponent(g *Graph, nodes []uint32) *Graph {
	out := New()
	keep := make(map[uint32]struct{}, len(nodes))
	for _, id := range nodes {
		keep[id] = struct{}{}
		if lat, lng, ok := g.Coord(id); ok {
			out.AddLocation(g.names[id], lat, lng)
		} else {
			out.AddVertex(g.names[id])
		}
	}

	for _, u := range nodes {
		for v, w := range g.adj[u] {
			if _, ok := keep[v]; !ok || v < u {
				continue
			}
			// Weights already passed AddEdge validation on g.
			_ = out.AddEdge(g.names[u], g.names[v], w)
		}
	}

	return out
}
