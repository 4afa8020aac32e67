package tilechain

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidOptions is returned when extraction parameters cannot produce
// geometry.
var ErrInvalidOptions = errors.New("tilechain: invalid options")

// Options configures a layer extraction. Zero values select defaults.
type Options struct {
	CollisionTags   []string
	Scale           float64
	PixelsPerMeter  float64
	MaxLoopVertices int
	Material        *Material
}

func (o Options) normalized() (Options, error) {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.PixelsPerMeter == 0 {
		o.PixelsPerMeter = DefaultPixelsPerMeter
	}
	if o.MaxLoopVertices == 0 {
		o.MaxLoopVertices = DefaultMaxLoopVertices
	}
	if o.Material == nil {
		m := DefaultMaterial()
		o.Material = &m
	}
	if o.Scale < 0 {
		return o, fmt.Errorf("%w: scale %v", ErrInvalidOptions, o.Scale)
	}
	if o.PixelsPerMeter < 0 {
		return o, fmt.Errorf("%w: pixels per meter %v", ErrInvalidOptions, o.PixelsPerMeter)
	}
	if o.MaxLoopVertices < 0 {
		return o, fmt.Errorf("%w: max loop vertices %d", ErrInvalidOptions, o.MaxLoopVertices)
	}
	return o, nil
}

// LayerResult is the extracted geometry of one layer.
type LayerResult struct {
	Layer  string
	Loops  []Loop
	Chains []Chain
	Stats  WalkStats
	// Body is set by Emit and owned by the caller for teardown.
	Body BodyHandle
}

// TraceLoops runs collection, walking and winding resolution over a w×h
// grid. cellSize is the pixel size used for the winding probe.
func TraceLoops(occ Occupancy, w, h int, cellSize float64, maxVertices int) ([]Loop, WalkStats) {
	edges := CollectEdges(occ, w, h)
	adj := NewAdjacencyIndex(edges)
	loops, stats := WalkLoops(edges, adj, maxVertices)
	for i := range loops {
		loops[i] = ResolveWinding(loops[i], occ, cellSize)
	}
	return loops, stats
}

// Extract derives the loops and world-space chains of one layer.
func Extract(layer TileLayer, opts Options) (*LayerResult, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	cell := layer.CellSize()
	if cell <= 0 {
		return nil, fmt.Errorf("%w: layer %s cell size %d", ErrInvalidOptions, layer.Name(), cell)
	}
	w, h := layer.GridSize()
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: layer %s grid %dx%d", ErrInvalidOptions, layer.Name(), w, h)
	}

	occ := NewClassifier(layer, opts.CollisionTags)
	loops, stats := TraceLoops(occ, w, h, float64(cell)*opts.Scale, opts.MaxLoopVertices)
	chains := EmitChains(loops, EmitOptions{
		CellSize:       cell,
		Scale:          opts.Scale,
		PixelsPerMeter: opts.PixelsPerMeter,
		Material:       *opts.Material,
	})
	return &LayerResult{Layer: layer.Name(), Loops: loops, Chains: chains, Stats: stats}, nil
}

// ExtractLayers extracts independent layers concurrently. Results keep the
// order of layers.
func ExtractLayers(layers []TileLayer, opts Options) ([]*LayerResult, error) {
	results := make([]*LayerResult, len(layers))
	var g errgroup.Group
	for i, layer := range layers {
		g.Go(func() error {
			r, err := Extract(layer, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
