package tilechain

import (
	"math/rand"
	"sort"
	"strings"
)

// textLayer builds a TileLayer from rows of characters: '#' is tagged
// "wall", 'x' is tagged "spike", anything else is empty.
type textLayer struct {
	name string
	rows []string
	cell int
}

func newTextLayer(rows ...string) *textLayer {
	return &textLayer{name: "test", rows: rows, cell: 16}
}

func (l *textLayer) Name() string { return l.name }

func (l *textLayer) GridSize() (int, int) {
	w := 0
	for _, r := range l.rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w, len(l.rows)
}

func (l *textLayer) CellSize() int { return l.cell }

func (l *textLayer) TagAt(x, y int) string {
	if y < 0 || y >= len(l.rows) || x < 0 || x >= len(l.rows[y]) {
		return ""
	}
	switch l.rows[y][x] {
	case '#':
		return "wall"
	case 'x':
		return "spike"
	}
	return ""
}

func occupancyOf(rows ...string) (*Classifier, int, int) {
	l := newTextLayer(rows...)
	w, h := l.GridSize()
	return NewClassifier(l, []string{"wall"}), w, h
}

func trace(rows ...string) ([]Loop, WalkStats, *Classifier) {
	occ, w, h := occupancyOf(rows...)
	loops, stats := TraceLoops(occ, w, h, 16, 0)
	return loops, stats, occ
}

// exposedSides counts solid cell sides facing a non-solid cell directly.
func exposedSides(occ Occupancy, w, h int) int {
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !occ.IsSolid(x, y) {
				continue
			}
			for _, d := range [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
				if !occ.IsSolid(x+d[0], y+d[1]) {
					n++
				}
			}
		}
	}
	return n
}

func edgeKeySet(edges []Edge) map[Edge]int {
	m := make(map[Edge]int, len(edges))
	for _, e := range edges {
		m[e]++
	}
	return m
}

// loopSignature is an order-independent description of a loop's edges.
func loopSignature(l Loop) string {
	edges := l.Edges()
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func pointSet(pts []GridPoint) map[GridPoint]bool {
	m := make(map[GridPoint]bool, len(pts))
	for _, p := range pts {
		m[p] = true
	}
	return m
}

func randomRows(r *rand.Rand, w, h int, fill float64) []string {
	rows := make([]string, h)
	for y := range rows {
		b := make([]byte, w)
		for x := range b {
			if r.Float64() < fill {
				b[x] = '#'
			} else {
				b[x] = '.'
			}
		}
		rows[y] = string(b)
	}
	return rows
}
