package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Layer is one tile layer of a Level. It satisfies tilechain.TileLayer so
// extraction reads tags straight from the level data.
type Layer struct {
	Index int
	Level *Level
	Tiles []int
	Meta  *LayerMeta
}

// NewLayer constructs a Layer from a Level and layer index.
func NewLayer(l *Level, idx int) *Layer {
	var tiles []int
	if l.Layers != nil && idx < len(l.Layers) {
		tiles = l.Layers[idx]
	}
	var meta *LayerMeta
	if l.LayerMeta != nil && idx < len(l.LayerMeta) {
		meta = &l.LayerMeta[idx]
	}
	return &Layer{Index: idx, Level: l, Tiles: tiles, Meta: meta}
}

func (ly *Layer) Name() string {
	if ly.Meta == nil {
		return ""
	}
	return ly.Meta.Name
}

func (ly *Layer) GridSize() (w, h int) {
	return ly.Level.Width, ly.Level.Height
}

// CellSize returns the layer's cell size, falling back to the level's.
func (ly *Layer) CellSize() int {
	if ly.Meta != nil && ly.Meta.CellSize > 0 {
		return ly.Meta.CellSize
	}
	return ly.Level.TileSize
}

// Collision reports whether the layer takes part in physics.
func (ly *Layer) Collision() bool {
	return ly.Meta != nil && ly.Meta.HasPhysics
}

// Value returns the raw tile value at (x, y), or 0 out of range.
func (ly *Layer) Value(x, y int) int {
	w, h := ly.GridSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	return ly.Tiles[y*w+x]
}

// TagAt resolves the tag of a cell: layer table, then level table, then
// the built-in defaults. Empty cells have no tag, and neither do values a
// NoDefaultTags layer does not name.
func (ly *Layer) TagAt(x, y int) string {
	v := ly.Value(x, y)
	if v == 0 {
		return ""
	}
	if ly.Meta != nil {
		if tag, ok := ly.Meta.Tags[v]; ok {
			return tag
		}
		if ly.Meta.NoDefaultTags {
			return ""
		}
	}
	if tag, ok := ly.Level.TileTags[v]; ok {
		return tag
	}
	return defaultTag(v)
}

// Draw draws every tagged cell of this layer.
func (ly *Layer) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if ly == nil || ly.Level == nil || ly.Tiles == nil {
		return
	}
	w, h := ly.GridSize()
	cell := float64(ly.CellSize())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tag := ly.TagAt(x, y)
			if tag == "" {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate((float64(x)*cell-camX)*zoom, (float64(y)*cell-camY)*zoom)
			screen.DrawImage(ly.Level.tagImage(ly, tag), op)
		}
	}
}
