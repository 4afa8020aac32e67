package obj

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/tilechains/prefabs"
	"github.com/milk9111/tilechains/tilechain"
)

// LevelService turns the collision layers of a level into static chain
// bodies and owns those bodies until Dispose.
type LevelService struct {
	spec    *prefabs.ExtractionSpec
	builder tilechain.ChainBuilder

	level   *Level
	results []*tilechain.LayerResult
}

func NewLevelService(spec *prefabs.ExtractionSpec, builder tilechain.ChainBuilder) (*LevelService, error) {
	if spec == nil {
		return nil, errors.New("level service: nil extraction spec")
	}
	if builder == nil {
		return nil, errors.New("level service: nil chain builder")
	}
	return &LevelService{spec: spec, builder: builder}, nil
}

// Init extracts every collision layer of level and emits the chains.
// Bodies from a previous Init are destroyed first. On error nothing from
// this call stays in the world.
func (s *LevelService) Init(level *Level) error {
	s.Dispose()
	if level == nil {
		return errors.New("level service: nil level")
	}

	var layers []tilechain.TileLayer
	for _, ly := range level.CollisionLayers() {
		if !s.spec.AllowsLayer(ly.Name()) {
			continue
		}
		layers = append(layers, ly)
	}

	results, err := tilechain.ExtractLayers(layers, s.spec.Options())
	if err != nil {
		return fmt.Errorf("level service: extract %s: %w", level.Source, err)
	}

	for i, r := range results {
		if r.Stats.Abandoned > 0 {
			log.Printf("LevelService: layer %s: %d open chains abandoned", r.Layer, r.Stats.Abandoned)
		}
		if err := tilechain.Emit(r, s.builder); err != nil {
			for _, done := range results[:i] {
				if done.Body != nil {
					done.Body.Destroy()
					done.Body = nil
				}
			}
			return fmt.Errorf("level service: emit layer %s: %w", r.Layer, err)
		}
		log.Printf("LevelService: layer %s: %d loops", r.Layer, len(r.Loops))
	}

	s.level = level
	s.results = results
	return nil
}

// Results returns the per-layer extraction results of the last Init.
func (s *LevelService) Results() []*tilechain.LayerResult {
	return s.results
}

func (s *LevelService) Level() *Level {
	return s.level
}

// Dispose destroys every body created by Init. It is safe to call more
// than once.
func (s *LevelService) Dispose() {
	for _, r := range s.results {
		if r.Body != nil {
			r.Body.Destroy()
			r.Body = nil
		}
	}
	s.results = nil
	s.level = nil
}
