package tilechain

// Loop is a closed boundary. The closing vertex is not repeated.
type Loop []GridPoint

// Reverse flips the vertex order in place.
func (l Loop) Reverse() {
	for i, j := 0, len(l)-1; i < j; i, j = i+1, j-1 {
		l[i], l[j] = l[j], l[i]
	}
}

// Edges returns the canonical edges between consecutive vertices, wrapping
// from the last vertex to the first.
func (l Loop) Edges() []Edge {
	if len(l) < 2 {
		return nil
	}
	out := make([]Edge, 0, len(l))
	for i := range l {
		out = append(out, NewEdge(l[i], l[(i+1)%len(l)]))
	}
	return out
}

// SignedArea2 returns twice the shoelace area. With y growing downward a
// positive value means the loop runs clockwise on screen.
func (l Loop) SignedArea2() int {
	sum := 0
	for i := range l {
		a := l[i]
		b := l[(i+1)%len(l)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// Corners returns the vertices where the loop changes direction. It is for
// inspection only; emitted loops keep every unit vertex.
func (l Loop) Corners() []GridPoint {
	n := len(l)
	if n < 3 {
		return nil
	}
	var out []GridPoint
	for i := range l {
		prev := l[(i+n-1)%n]
		cur := l[i]
		next := l[(i+1)%n]
		dx1, dy1 := cur.X-prev.X, cur.Y-prev.Y
		dx2, dy2 := next.X-cur.X, next.Y-cur.Y
		if dx1*dy2-dy1*dx2 != 0 {
			out = append(out, cur)
		}
	}
	return out
}
