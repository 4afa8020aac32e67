package tilechain

// AdjacencyIndex maps every boundary vertex to the vertices it shares an
// edge with in the original edge set. It is reference topology: the walker
// never mutates it and checks edge availability against the live EdgeSet.
type AdjacencyIndex struct {
	neighbors map[GridPoint][]GridPoint
}

// NewAdjacencyIndex records both directions of every edge in s, in s's
// insertion order.
func NewAdjacencyIndex(s *EdgeSet) AdjacencyIndex {
	edges := s.Edges()
	idx := AdjacencyIndex{neighbors: make(map[GridPoint][]GridPoint, len(edges))}
	for _, e := range edges {
		idx.neighbors[e.A] = append(idx.neighbors[e.A], e.B)
		idx.neighbors[e.B] = append(idx.neighbors[e.B], e.A)
	}
	return idx
}

// Neighbors returns the recorded neighbors of p. The slice must not be
// modified.
func (a AdjacencyIndex) Neighbors(p GridPoint) []GridPoint {
	return a.neighbors[p]
}

// Degree returns the number of original edges incident to p.
func (a AdjacencyIndex) Degree(p GridPoint) int {
	return len(a.neighbors[p])
}

// Pinches returns the vertices with more than two incident edges, in no
// particular order.
func (a AdjacencyIndex) Pinches() []GridPoint {
	var out []GridPoint
	for p, n := range a.neighbors {
		if len(n) > 2 {
			out = append(out, p)
		}
	}
	return out
}
