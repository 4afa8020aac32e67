package obj

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"
)

// Tiled properties read by LoadTMX.
const (
	tmxTagProperty       = "tag"
	tmxCollisionProperty = "collision"
)

// LoadTMX parses a Tiled map into a Level. Tile values are global tile IDs.
// A tileset tile's "tag" property names its tag, defaulting to "tile"; a
// layer's "collision" property marks it for physics. Pass an embed.FS or
// os.DirFS as fsys.
func LoadTMX(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth != levelMap.TileHeight {
		return nil, fmt.Errorf("load TMX %s: non-square tiles %dx%d", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	w, h := levelMap.Width, levelMap.Height
	layers := make([][]int, 0, len(levelMap.Layers))
	meta := make([]LayerMeta, 0, len(levelMap.Layers))
	for _, layer := range levelMap.Layers {
		if len(layer.Tiles) != w*h {
			// infinite maps store chunks; not supported
			return nil, fmt.Errorf("load TMX %s: layer %q has %d tiles, want %d", tmxPath, layer.Name, len(layer.Tiles), w*h)
		}
		tiles := make([]int, w*h)
		tags := make(map[int]string)
		for i, tile := range layer.Tiles {
			if tile.IsNil() {
				continue
			}
			gid := int(tile.Tileset.FirstGID + tile.ID)
			tiles[i] = gid
			if _, ok := tags[gid]; ok {
				continue
			}
			tag := TagTile
			if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
				if v := tilesetTile.Properties.GetString(tmxTagProperty); v != "" {
					tag = v
				}
			}
			tags[gid] = tag
		}
		layers = append(layers, tiles)
		meta = append(meta, LayerMeta{
			Name:       layer.Name,
			HasPhysics: layer.Properties.GetBool(tmxCollisionProperty),
			Tags:       tags,
		})
	}

	lvl, err := NewLevel(w, h, levelMap.TileWidth, layers, meta)
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	lvl.Source = tmxPath
	return lvl, nil
}
