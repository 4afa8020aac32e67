package obj

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilechains/common"
	"github.com/milk9111/tilechains/tilechain"
	"golang.org/x/image/colornames"
)

// Built-in tile tags used when neither the layer nor the level names a value.
const (
	TagSolid  = "solid"
	TagHazard = "hazard"
	TagTile   = "tile"
)

// Level is a tile map made of one or more named layers. JSON levels are
// decoded straight into it; Tiled and LDtk loaders build one with NewLevel.
type Level struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// TileSize is the pixel size of a cell. Zero means common.TileSize.
	TileSize int `json:"tile_size,omitempty"`
	// Layers is a slice of flat row-major tile arrays of length Width*Height.
	// Layer 0 is drawn first.
	Layers [][]int `json:"layers,omitempty"`
	// LayerMeta holds per-layer names, physics flags, colors and tag tables.
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	// TileTags maps tile values to tags for every layer that does not
	// override them.
	TileTags map[int]string `json:"tile_tags,omitempty"`

	// probe spawn in tile coordinates
	SpawnX int `json:"spawn_x,omitempty"`
	SpawnY int `json:"spawn_y,omitempty"`

	// Source is the path the level was loaded from.
	Source string `json:"-"`

	layers []*Layer
	// per-tag images built lazily on first Draw
	tagImgs map[string]*ebiten.Image
}

type LayerMeta struct {
	Name       string         `json:"name,omitempty"`
	HasPhysics bool           `json:"has_physics"`
	Color      string         `json:"color,omitempty"`
	CellSize   int            `json:"cell_size,omitempty"`
	Tags       map[int]string `json:"tags,omitempty"`
	// NoDefaultTags leaves values missing from Tags untagged instead of
	// falling back to the level table and the built-in defaults.
	NoDefaultTags bool `json:"no_default_tags,omitempty"`
}

// LoadLevel loads a level from a JSON file at path.
func LoadLevel(path string) (*Level, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lvl, err := loadLevelFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	lvl.Source = path
	return lvl, nil
}

// LoadLevelFromFS loads a level JSON from an fs.FS (e.g. embedded levels).
func LoadLevelFromFS(fsys fs.FS, path string) (*Level, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(path), "levels/")
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, err
	}
	lvl, err := loadLevelFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", clean, err)
	}
	lvl.Source = clean
	return lvl, nil
}

func loadLevelFromBytes(b []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(b, &lvl); err != nil {
		return nil, err
	}
	if err := lvl.build(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// NewLevel assembles a level from already decoded layers.
func NewLevel(width, height, tileSize int, layers [][]int, meta []LayerMeta) (*Level, error) {
	lvl := &Level{Width: width, Height: height, TileSize: tileSize, Layers: layers, LayerMeta: meta}
	if err := lvl.build(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func (l *Level) build() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid level dimensions: %dx%d", l.Width, l.Height)
	}
	if l.TileSize == 0 {
		l.TileSize = common.TileSize
	}
	if l.TileSize < 0 {
		return fmt.Errorf("invalid tile size %d", l.TileSize)
	}

	// Ensure layer meta exists for each layer.
	if len(l.LayerMeta) < len(l.Layers) {
		meta := make([]LayerMeta, len(l.Layers))
		copy(meta, l.LayerMeta)
		l.LayerMeta = meta
	}

	seen := make(map[string]bool, len(l.Layers))
	l.layers = make([]*Layer, 0, len(l.Layers))
	for i, tiles := range l.Layers {
		if len(tiles) != l.Width*l.Height {
			return fmt.Errorf("layer %d has %d tiles, want %d", i, len(tiles), l.Width*l.Height)
		}
		meta := &l.LayerMeta[i]
		if meta.Name == "" {
			meta.Name = fmt.Sprintf("layer%d", i)
		}
		if seen[meta.Name] {
			return fmt.Errorf("duplicate layer name %q", meta.Name)
		}
		seen[meta.Name] = true
		l.layers = append(l.layers, NewLayer(l, i))
	}
	return nil
}

// TileLayers returns every layer in draw order.
func (l *Level) TileLayers() []*Layer {
	if l == nil {
		return nil
	}
	return l.layers
}

// CollisionLayers returns the layers flagged for physics, in draw order.
func (l *Level) CollisionLayers() []*Layer {
	if l == nil {
		return nil
	}
	var out []*Layer
	for _, ly := range l.layers {
		if ly.Collision() {
			out = append(out, ly)
		}
	}
	return out
}

// Layer looks a layer up by name.
func (l *Level) Layer(name string) (*Layer, bool) {
	if l == nil {
		return nil, false
	}
	for _, ly := range l.layers {
		if ly.Name() == name {
			return ly, true
		}
	}
	return nil, false
}

// PixelSize returns the level extent in pixels.
func (l *Level) PixelSize() (w, h int) {
	return l.Width * l.TileSize, l.Height * l.TileSize
}

// defaultTag resolves a tile value that no table names.
func defaultTag(v int) string {
	switch {
	case v <= 0:
		return ""
	case v == 1:
		return TagSolid
	case v == 2:
		return TagHazard
	default:
		return TagTile
	}
}

// Draw renders the level to screen. camX/camY are the camera view's top-left in world coords.
func (l *Level) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if l == nil || screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	for _, ly := range l.layers {
		ly.Draw(screen, camX, camY, zoom)
	}
}

func (l *Level) tagImage(ly *Layer, tag string) *ebiten.Image {
	if l.tagImgs == nil {
		l.tagImgs = make(map[string]*ebiten.Image)
	}
	key := ly.Name() + "/" + tag
	if img, ok := l.tagImgs[key]; ok {
		return img
	}
	img := ebiten.NewImage(ly.CellSize(), ly.CellSize())
	img.Fill(tagColor(ly.Meta, tag))
	l.tagImgs[key] = img
	return img
}

// tagColor picks the fill for a tag. Solid tiles use the layer color.
func tagColor(meta *LayerMeta, tag string) color.RGBA {
	switch tag {
	case TagHazard:
		return colornames.Crimson
	case TagSolid, TagTile:
		if meta != nil && meta.Color != "" {
			return parseHexColor(meta.Color)
		}
		if tag == TagTile {
			return colornames.Steelblue
		}
		return colornames.Royalblue
	default:
		return colornames.Darkslategray
	}
}

// parseHexColor parses a color in the form #rrggbb. Returns opaque blue if parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x3c, 0x78, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

var _ tilechain.TileLayer = (*Layer)(nil)
