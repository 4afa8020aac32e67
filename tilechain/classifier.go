package tilechain

// Occupancy reports whether a grid cell is solid. Implementations must
// return false for cells outside the grid.
type Occupancy interface {
	IsSolid(x, y int) bool
}

// TileLayer is the narrow view of one tile layer the extractor needs.
type TileLayer interface {
	Name() string
	GridSize() (w, h int)
	// CellSize is the edge length of one cell in pixels.
	CellSize() int
	// TagAt returns the tag name of a cell, or "" for an empty cell.
	TagAt(x, y int) string
}

// Classifier marks cells solid when their tag exactly matches one of the
// collision tag names.
type Classifier struct {
	layer  TileLayer
	w, h   int
	solids map[string]struct{}
}

// NewClassifier builds a classifier over layer for the given collision tags.
func NewClassifier(layer TileLayer, collisionTags []string) *Classifier {
	w, h := layer.GridSize()
	solids := make(map[string]struct{}, len(collisionTags))
	for _, tag := range collisionTags {
		solids[tag] = struct{}{}
	}
	return &Classifier{layer: layer, w: w, h: h, solids: solids}
}

// IsSolid implements Occupancy.
func (c *Classifier) IsSolid(x, y int) bool {
	if c == nil || x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	tag := c.layer.TagAt(x, y)
	if tag == "" {
		return false
	}
	_, ok := c.solids[tag]
	return ok
}

