package tilechain

// EdgeSet holds the boundary edges of one layer that have not been consumed
// yet. Iteration follows insertion order so walks are reproducible.
type EdgeSet struct {
	order []Edge
	live  map[Edge]int
	head  int
}

// NewEdgeSet returns an empty set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{live: make(map[Edge]int)}
}

// Add inserts the canonical edge between a and b. It reports false when the
// edge was already present.
func (s *EdgeSet) Add(a, b GridPoint) bool {
	e := NewEdge(a, b)
	if _, ok := s.live[e]; ok {
		return false
	}
	s.live[e] = len(s.order)
	s.order = append(s.order, e)
	return true
}

// Contains reports whether the edge between a and b is still available.
func (s *EdgeSet) Contains(a, b GridPoint) bool {
	_, ok := s.live[NewEdge(a, b)]
	return ok
}

// Remove consumes the edge between a and b. It reports false when the edge
// was not present.
func (s *EdgeSet) Remove(a, b GridPoint) bool {
	e := NewEdge(a, b)
	if _, ok := s.live[e]; !ok {
		return false
	}
	delete(s.live, e)
	return true
}

// Len returns the number of remaining edges.
func (s *EdgeSet) Len() int {
	return len(s.live)
}

// First returns the oldest remaining edge.
func (s *EdgeSet) First() (Edge, bool) {
	for s.head < len(s.order) {
		e := s.order[s.head]
		if idx, ok := s.live[e]; ok && idx == s.head {
			return e, true
		}
		s.head++
	}
	return Edge{}, false
}

// Edges returns the remaining edges in insertion order.
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s.live))
	for i, e := range s.order {
		if idx, ok := s.live[e]; ok && idx == i {
			out = append(out, e)
		}
	}
	return out
}

// CollectEdges scans a w×h grid in row-major order and returns every unit
// edge separating a solid cell from a non-solid or out-of-range neighbor.
// Sides are tested up, down, left, right.
func CollectEdges(occ Occupancy, w, h int) *EdgeSet {
	set := NewEdgeSet()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !occ.IsSolid(x, y) {
				continue
			}
			if !occ.IsSolid(x, y-1) {
				set.Add(GridPoint{x, y}, GridPoint{x + 1, y})
			}
			if !occ.IsSolid(x, y+1) {
				set.Add(GridPoint{x, y + 1}, GridPoint{x + 1, y + 1})
			}
			if !occ.IsSolid(x-1, y) {
				set.Add(GridPoint{x, y}, GridPoint{x, y + 1})
			}
			if !occ.IsSolid(x+1, y) {
				set.Add(GridPoint{x + 1, y}, GridPoint{x + 1, y + 1})
			}
		}
	}
	return set
}
