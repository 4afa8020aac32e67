// Package tilechain derives closed collision chains from tile-grid occupancy.
//
// A layer goes through a fixed pipeline: an Occupancy answers which cells are
// solid, CollectEdges gathers every unit edge between a solid and an empty
// cell, NewAdjacencyIndex records the boundary graph once, a Walker consumes
// the edges into closed loops, ResolveWinding puts solid material on the
// right-hand side of every loop, and EmitChains scales the loops into world
// units for a physics engine.
package tilechain

import "fmt"

// GridPoint is the integer coordinate of a cell corner.
type GridPoint struct {
	X int
	Y int
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// less orders points by X, then Y.
func (p GridPoint) less(o GridPoint) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Edge is an undirected unit boundary segment. A is always the
// lexicographically smaller endpoint so both insertion directions compare
// equal.
type Edge struct {
	A GridPoint
	B GridPoint
}

// NewEdge returns the canonical edge between a and b.
func NewEdge(a, b GridPoint) Edge {
	if b.less(a) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

func (e Edge) String() string {
	return fmt.Sprintf("%v-%v", e.A, e.B)
}
