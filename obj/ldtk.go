package obj

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LDtk project subset needed to read IntGrid collision layers.
type ldtkProject struct {
	Defs struct {
		Layers []ldtkLayerDef `json:"layers"`
	} `json:"defs"`
	Levels []ldtkLevel `json:"levels"`
}

type ldtkLayerDef struct {
	UID           int    `json:"uid"`
	Identifier    string `json:"identifier"`
	Type          string `json:"type"`
	GridSize      int    `json:"gridSize"`
	IntGridValues []struct {
		Value      int    `json:"value"`
		Identifier string `json:"identifier"`
	} `json:"intGridValues"`
}

type ldtkLevel struct {
	Identifier      string              `json:"identifier"`
	ExternalRelPath string              `json:"externalRelPath"`
	LayerInstances  []ldtkLayerInstance `json:"layerInstances"`
}

type ldtkLayerInstance struct {
	Identifier  string `json:"__identifier"`
	Type        string `json:"__type"`
	CWid        int    `json:"__cWid"`
	CHei        int    `json:"__cHei"`
	GridSize    int    `json:"__gridSize"`
	LayerDefUID int    `json:"layerDefUid"`
	IntGridCsv  []int  `json:"intGridCsv"`
}

// LoadLDtk reads one level of an LDtk project. Every IntGrid layer becomes
// a collision layer whose tags are the IntGrid value identifiers; values
// without an identifier stay untagged and never count as solid. Levels
// saved as separate files are followed through externalRelPath.
func LoadLDtk(path, levelID string) (*Level, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ldtk %s: %w", path, err)
	}
	var project ldtkProject
	if err := json.Unmarshal(b, &project); err != nil {
		return nil, fmt.Errorf("ldtk %s: %w", path, err)
	}

	var level *ldtkLevel
	for i := range project.Levels {
		if levelID == "" || project.Levels[i].Identifier == levelID {
			level = &project.Levels[i]
			break
		}
	}
	if level == nil {
		return nil, fmt.Errorf("ldtk %s: level %q not found", path, levelID)
	}

	if level.LayerInstances == nil && level.ExternalRelPath != "" {
		ext := filepath.Join(filepath.Dir(path), filepath.FromSlash(level.ExternalRelPath))
		b, err := os.ReadFile(ext)
		if err != nil {
			return nil, fmt.Errorf("ldtk %s: external level: %w", path, err)
		}
		var external ldtkLevel
		if err := json.Unmarshal(b, &external); err != nil {
			return nil, fmt.Errorf("ldtk %s: %w", ext, err)
		}
		level = &external
	}

	defs := make(map[int]*ldtkLayerDef, len(project.Defs.Layers))
	for i := range project.Defs.Layers {
		defs[project.Defs.Layers[i].UID] = &project.Defs.Layers[i]
	}

	var (
		layers   [][]int
		meta     []LayerMeta
		w, h     int
		tileSize int
	)
	// LDtk lists layers top-most first; levels draw bottom-most first.
	for i := len(level.LayerInstances) - 1; i >= 0; i-- {
		inst := level.LayerInstances[i]
		if inst.Type != "IntGrid" {
			continue
		}
		if w == 0 {
			w, h, tileSize = inst.CWid, inst.CHei, inst.GridSize
		}
		if inst.CWid != w || inst.CHei != h || inst.GridSize != tileSize {
			return nil, fmt.Errorf("ldtk %s: layer %q grid %dx%d@%d differs from %dx%d@%d",
				path, inst.Identifier, inst.CWid, inst.CHei, inst.GridSize, w, h, tileSize)
		}
		if len(inst.IntGridCsv) != w*h {
			return nil, fmt.Errorf("ldtk %s: layer %q has %d cells, want %d", path, inst.Identifier, len(inst.IntGridCsv), w*h)
		}

		tags := make(map[int]string)
		if def, ok := defs[inst.LayerDefUID]; ok {
			for _, v := range def.IntGridValues {
				if v.Identifier != "" {
					tags[v.Value] = v.Identifier
				}
			}
		}
		layers = append(layers, append([]int(nil), inst.IntGridCsv...))
		meta = append(meta, LayerMeta{Name: inst.Identifier, HasPhysics: true, Tags: tags, NoDefaultTags: true})
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("ldtk %s: level %q has no IntGrid layers", path, level.Identifier)
	}

	lvl, err := NewLevel(w, h, tileSize, layers, meta)
	if err != nil {
		return nil, fmt.Errorf("ldtk %s: %w", path, err)
	}
	lvl.Source = path
	return lvl, nil
}
