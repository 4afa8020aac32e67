package prefabs

import (
	"errors"
	"fmt"
	"os"

	"github.com/milk9111/tilechains/tilechain"
	"gopkg.in/yaml.v3"
)

// ExtractionFile is the embedded default spec name.
const ExtractionFile = "extraction.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ExtractionSpec configures how collision layers become physics chains.
type ExtractionSpec struct {
	CollisionTags   []string           `yaml:"collision_tags"`
	Scale           float64            `yaml:"scale"`
	PixelsPerMeter  float64            `yaml:"pixels_per_meter"`
	MaxLoopVertices int                `yaml:"max_loop_vertices"`
	Material        tilechain.Material `yaml:"material"`
	// Layers optionally restricts extraction to the named layers.
	Layers  []string `yaml:"layers"`
	Gravity float64  `yaml:"gravity"`
}

// LoadExtractionSpec loads extraction.yaml (disk copy first, then embedded).
func LoadExtractionSpec() (*ExtractionSpec, error) {
	spec, err := LoadSpec[ExtractionSpec](ExtractionFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", ExtractionFile, err)
	}
	return &spec, nil
}

// LoadExtractionSpecFile loads a spec from an explicit path.
func LoadExtractionSpecFile(path string) (*ExtractionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	spec, err := ParseExtractionSpec(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", path, err)
	}
	return spec, nil
}

// ParseExtractionSpec decodes and validates a spec document.
func ParseExtractionSpec(data []byte) (*ExtractionSpec, error) {
	var spec ExtractionSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal extraction spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate rejects specs that cannot produce geometry.
func (s *ExtractionSpec) Validate() error {
	if s == nil {
		return errors.New("nil extraction spec")
	}
	if len(s.CollisionTags) == 0 {
		return errors.New("collision_tags is empty")
	}
	for i, tag := range s.CollisionTags {
		if tag == "" {
			return fmt.Errorf("collision_tags[%d] is empty", i)
		}
	}
	if s.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", s.Scale)
	}
	if s.PixelsPerMeter < 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %v", s.PixelsPerMeter)
	}
	if s.MaxLoopVertices < 0 {
		return fmt.Errorf("max_loop_vertices must be positive, got %d", s.MaxLoopVertices)
	}
	if s.Material.Friction < 0 || s.Material.Restitution < 0 {
		return fmt.Errorf("material must be non-negative, got %+v", s.Material)
	}
	return nil
}

// Options converts the spec into extraction options. An all-zero material
// selects the default surface.
func (s *ExtractionSpec) Options() tilechain.Options {
	opts := tilechain.Options{
		CollisionTags:   append([]string(nil), s.CollisionTags...),
		Scale:           s.Scale,
		PixelsPerMeter:  s.PixelsPerMeter,
		MaxLoopVertices: s.MaxLoopVertices,
	}
	if s.Material != (tilechain.Material{}) {
		mat := s.Material
		opts.Material = &mat
	}
	return opts
}

// AllowsLayer reports whether a layer passes the optional allow-list.
func (s *ExtractionSpec) AllowsLayer(name string) bool {
	if s == nil || len(s.Layers) == 0 {
		return true
	}
	for _, l := range s.Layers {
		if l == name {
			return true
		}
	}
	return false
}
