package obj

import (
	"math"
	"sort"

	"github.com/milk9111/tilechains/tilechain"
	"github.com/peterstace/simplefeatures/rtree"
)

// ChainRef identifies one extracted loop.
type ChainRef struct {
	Layer string
	Index int
}

// ChainIndex is a bounding-box index over extracted chains, used to find
// the loop under a point.
type ChainIndex struct {
	tree  rtree.RTree
	refs  []ChainRef
	boxes []rtree.Box
}

// NewChainIndex indexes every chain of results. Coordinates are physics
// units.
func NewChainIndex(results []*tilechain.LayerResult) *ChainIndex {
	idx := &ChainIndex{}
	for _, r := range results {
		if r == nil {
			continue
		}
		for i, chain := range r.Chains {
			if len(chain.Vertices) == 0 {
				continue
			}
			box := chainBox(chain)
			id := len(idx.refs)
			idx.refs = append(idx.refs, ChainRef{Layer: r.Layer, Index: i})
			idx.boxes = append(idx.boxes, box)
			idx.tree.Insert(box, id)
		}
	}
	return idx
}

func chainBox(chain tilechain.Chain) rtree.Box {
	box := rtree.Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, v := range chain.Vertices {
		box.MinX = math.Min(box.MinX, v.X)
		box.MinY = math.Min(box.MinY, v.Y)
		box.MaxX = math.Max(box.MaxX, v.X)
		box.MaxY = math.Max(box.MaxY, v.Y)
	}
	return box
}

// Len returns the number of indexed chains.
func (c *ChainIndex) Len() int {
	return len(c.refs)
}

// At returns the chains whose bounds contain p, smallest area first so
// holes come before the loops that enclose them.
func (c *ChainIndex) At(p tilechain.Vec2) []ChainRef {
	var ids []int
	_ = c.tree.RangeSearch(rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}, func(id int) error {
		ids = append(ids, id)
		return nil
	})
	sort.SliceStable(ids, func(i, j int) bool {
		return c.area(ids[i]) < c.area(ids[j])
	})
	out := make([]ChainRef, len(ids))
	for i, id := range ids {
		out[i] = c.refs[id]
	}
	return out
}

func (c *ChainIndex) area(id int) float64 {
	b := c.boxes[id]
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}
