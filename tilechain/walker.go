package tilechain

// DefaultMaxLoopVertices bounds a single walk on malformed topology.
const DefaultMaxLoopVertices = 100000

type walkState int

const (
	stateSelecting walkState = iota
	stateWalking
	stateClosed
	stateAbandoned
)

// WalkStats counts how each walk of a layer ended.
type WalkStats struct {
	Closed     int
	Abandoned  int
	Degenerate int
}

// Walker turns an EdgeSet into closed loops, consuming edges as it visits
// them.
type Walker struct {
	edges       *EdgeSet
	adj         AdjacencyIndex
	maxVertices int

	state walkState
	loop  Loop
	start GridPoint
	prev  GridPoint
	cur   GridPoint

	stats WalkStats
}

// NewWalker prepares a walk over edges using adj for neighbor order. A
// maxVertices of zero or less selects DefaultMaxLoopVertices.
func NewWalker(edges *EdgeSet, adj AdjacencyIndex, maxVertices int) *Walker {
	if maxVertices <= 0 {
		maxVertices = DefaultMaxLoopVertices
	}
	return &Walker{edges: edges, adj: adj, maxVertices: maxVertices}
}

// Stats returns the counts accumulated so far.
func (w *Walker) Stats() WalkStats {
	return w.stats
}

// Next walks until one loop closes with at least three vertices and returns
// it. The returned loop still has the walker's traversal order. It reports
// false once every edge is consumed.
func (w *Walker) Next() (Loop, bool) {
	for {
		switch w.state {
		case stateSelecting:
			e, ok := w.edges.First()
			if !ok {
				return nil, false
			}
			w.edges.Remove(e.A, e.B)
			w.start, w.prev, w.cur = e.A, e.A, e.B
			w.loop = Loop{e.A, e.B}
			w.state = stateWalking

		case stateWalking:
			next, ok := w.step()
			if !ok {
				w.state = stateAbandoned
				continue
			}
			w.edges.Remove(w.cur, next)
			w.loop = append(w.loop, next)
			w.prev, w.cur = w.cur, next
			if w.cur == w.start {
				w.state = stateClosed
			} else if len(w.loop) > w.maxVertices {
				w.state = stateAbandoned
			}

		case stateAbandoned:
			w.stats.Abandoned++
			w.loop = nil
			w.state = stateSelecting

		case stateClosed:
			loop := w.loop[:len(w.loop)-1]
			w.loop = nil
			w.state = stateSelecting
			if len(loop) < 3 {
				w.stats.Degenerate++
				continue
			}
			w.stats.Closed++
			return loop, true
		}
	}
}

// step picks the first neighbor of cur, in adjacency order, that is not the
// vertex just left and whose edge is still unconsumed.
func (w *Walker) step() (GridPoint, bool) {
	for _, cand := range w.adj.Neighbors(w.cur) {
		if cand == w.prev {
			continue
		}
		if w.edges.Contains(w.cur, cand) {
			return cand, true
		}
	}
	return GridPoint{}, false
}

// WalkLoops drains edges and returns every closed loop in discovery order.
func WalkLoops(edges *EdgeSet, adj AdjacencyIndex, maxVertices int) ([]Loop, WalkStats) {
	w := NewWalker(edges, adj, maxVertices)
	var loops []Loop
	for {
		loop, ok := w.Next()
		if !ok {
			break
		}
		loops = append(loops, loop)
	}
	return loops, w.Stats()
}
