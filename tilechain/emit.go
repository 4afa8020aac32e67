package tilechain

// DefaultPixelsPerMeter converts pixel coordinates into physics units.
const DefaultPixelsPerMeter = 30.0

// Vec2 is a world-space vertex in physics units.
type Vec2 struct {
	X float64
	Y float64
}

// Material is the surface response assigned to every chain vertex.
type Material struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// DefaultMaterial returns the low-friction, low-bounce surface used for
// level geometry.
func DefaultMaterial() Material {
	return Material{Friction: 0.1, Restitution: 0.1}
}

// Chain is one closed loop ready for a static chain shape.
type Chain struct {
	Vertices  []Vec2
	Materials []Material
	// Loop is always true for extracted geometry; the last vertex connects
	// back to the first.
	Loop bool
}

// EmitOptions controls the grid to world conversion.
type EmitOptions struct {
	CellSize       int
	Scale          float64
	PixelsPerMeter float64
	Material       Material
}

// ToWorld maps a grid corner into physics units.
func (o EmitOptions) ToWorld(p GridPoint) Vec2 {
	k := float64(o.CellSize) * o.Scale / o.PixelsPerMeter
	return Vec2{X: float64(p.X) * k, Y: float64(p.Y) * k}
}

// EmitChains converts grid loops into world-space chains with a uniform
// per-vertex material.
func EmitChains(loops []Loop, opts EmitOptions) []Chain {
	chains := make([]Chain, 0, len(loops))
	for _, loop := range loops {
		verts := make([]Vec2, len(loop))
		mats := make([]Material, len(loop))
		for i, p := range loop {
			verts[i] = opts.ToWorld(p)
			mats[i] = opts.Material
		}
		chains = append(chains, Chain{Vertices: verts, Materials: mats, Loop: true})
	}
	return chains
}

// BodyHandle is the static body a ChainBuilder created for one layer.
type BodyHandle interface {
	Destroy()
}

// ChainBuilder is the physics side of emission. It creates one static body
// holding one chain shape per Chain.
type ChainBuilder interface {
	CreateStaticChains(layer string, chains []Chain) (BodyHandle, error)
}

// Emit hands the chains of r to builder and records the returned body on r.
// Layers without chains are skipped and keep a nil Body.
func Emit(r *LayerResult, builder ChainBuilder) error {
	if r == nil || builder == nil || len(r.Chains) == 0 {
		return nil
	}
	body, err := builder.CreateStaticChains(r.Layer, r.Chains)
	if err != nil {
		return err
	}
	r.Body = body
	return nil
}
