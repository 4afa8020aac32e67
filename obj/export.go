package obj

import (
	"github.com/milk9111/tilechains/tilechain"
	"gopkg.in/yaml.v3"
)

// ChainExport is the YAML view of extracted level geometry.
type ChainExport struct {
	Level  string        `yaml:"level,omitempty"`
	Layers []LayerExport `yaml:"layers"`
}

type LayerExport struct {
	Name      string          `yaml:"name"`
	Closed    int             `yaml:"closed"`
	Abandoned int             `yaml:"abandoned,omitempty"`
	Chains    []ChainGeometry `yaml:"chains"`
}

type ChainGeometry struct {
	// Grid lists the loop vertices in cell units.
	Grid     [][2]int           `yaml:"grid,flow"`
	Vertices [][2]float64       `yaml:"vertices,flow"`
	Material tilechain.Material `yaml:"material"`
}

// NewChainExport builds the export view of results.
func NewChainExport(level string, results []*tilechain.LayerResult) ChainExport {
	out := ChainExport{Level: level, Layers: make([]LayerExport, 0, len(results))}
	for _, r := range results {
		if r == nil {
			continue
		}
		le := LayerExport{Name: r.Layer, Closed: r.Stats.Closed, Abandoned: r.Stats.Abandoned}
		for i, chain := range r.Chains {
			cg := ChainGeometry{}
			if i < len(r.Loops) {
				for _, p := range r.Loops[i] {
					cg.Grid = append(cg.Grid, [2]int{p.X, p.Y})
				}
			}
			for _, v := range chain.Vertices {
				cg.Vertices = append(cg.Vertices, [2]float64{v.X, v.Y})
			}
			if len(chain.Materials) > 0 {
				cg.Material = chain.Materials[0]
			}
			le.Chains = append(le.Chains, cg)
		}
		out.Layers = append(out.Layers, le)
	}
	return out
}

// ExportYAML renders results as a YAML document.
func ExportYAML(level string, results []*tilechain.LayerResult) ([]byte, error) {
	return yaml.Marshal(NewChainExport(level, results))
}
