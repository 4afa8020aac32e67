package tilechain

import "math"

// probeFraction is how far, in cells, the winding probe sits from an edge.
const probeFraction = 0.25

// HasSolidOnRight samples a point a quarter cell to the right of the first
// non-degenerate edge of loop (y grows downward) and reports whether the
// cell under it is solid. cellSize is the pixel size of one cell; a loop
// with no usable edge reports false.
func HasSolidOnRight(loop Loop, occ Occupancy, cellSize float64) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		a := loop[i]
		b := loop[(i+1)%n]
		if a == b {
			continue
		}

		ax, ay := float64(a.X)*cellSize, float64(a.Y)*cellSize
		bx, by := float64(b.X)*cellSize, float64(b.Y)*cellSize
		ex, ey := bx-ax, by-ay
		length := math.Hypot(ex, ey)
		if length < 1e-4 {
			continue
		}
		ex /= length
		ey /= length

		rx, ry := -ey, ex
		mx, my := 0.5*(ax+bx), 0.5*(ay+by)
		eps := probeFraction * cellSize
		sx, sy := mx+rx*eps, my+ry*eps

		gx := int(math.Floor(sx / cellSize))
		gy := int(math.Floor(sy / cellSize))
		return occ.IsSolid(gx, gy)
	}
	return false
}

// ResolveWinding returns loop ordered so solid material lies on the right
// of travel, reversing it in place when needed.
func ResolveWinding(loop Loop, occ Occupancy, cellSize float64) Loop {
	if !HasSolidOnRight(loop, occ, cellSize) {
		loop.Reverse()
	}
	return loop
}
