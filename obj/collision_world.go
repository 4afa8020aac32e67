package obj

import (
	"fmt"
	"log"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilechains/common"
	"github.com/milk9111/tilechains/tilechain"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeProbe
)

// CollisionWorld is a chipmunk space that receives extracted chains. All
// coordinates are in physics units (meters).
type CollisionWorld struct {
	space *cp.Space
	ppm   float64

	mu     sync.Mutex
	chains map[string]*StaticChains
	probes []probe
}

type probe struct {
	body  *cp.Body
	shape *cp.Shape
}

// NewCollisionWorld creates a space with downward gravity in meters/s².
// ppm is kept for debug drawing; zero selects the default.
func NewCollisionWorld(gravity, ppm float64) *CollisionWorld {
	if ppm <= 0 {
		ppm = common.PixelsPerMeter
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &CollisionWorld{space: space, ppm: ppm, chains: make(map[string]*StaticChains)}
}

// StaticChains is the static body created for one layer.
type StaticChains struct {
	world  *CollisionWorld
	layer  string
	body   *cp.Body
	shapes []*cp.Shape
	once   sync.Once
}

// CreateStaticChains adds one static body for layer with a smooth segment
// chain per closed loop.
func (cw *CollisionWorld) CreateStaticChains(layer string, chains []tilechain.Chain) (tilechain.BodyHandle, error) {
	if cw == nil || cw.space == nil {
		return nil, fmt.Errorf("collision world: not initialized")
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if _, ok := cw.chains[layer]; ok {
		return nil, fmt.Errorf("collision world: layer %q already has a static body", layer)
	}

	body := cp.NewStaticBody()
	cw.space.AddBody(body)
	sc := &StaticChains{world: cw, layer: layer, body: body}

	for ci, chain := range chains {
		n := len(chain.Vertices)
		if n < 3 {
			cw.removeLocked(sc)
			return nil, fmt.Errorf("collision world: layer %q chain %d has %d vertices", layer, ci, n)
		}
		for i := 0; i < n; i++ {
			prev := toVector(chain.Vertices[(i+n-1)%n])
			a := toVector(chain.Vertices[i])
			b := toVector(chain.Vertices[(i+1)%n])
			next := toVector(chain.Vertices[(i+2)%n])

			shape := cp.NewSegment(body, a, b, 0)
			if seg, ok := shape.Class.(*cp.SegmentShape); ok {
				seg.SetNeighbors(prev, next)
			}
			mat := tilechain.DefaultMaterial()
			if i < len(chain.Materials) {
				mat = chain.Materials[i]
			}
			shape.SetFriction(mat.Friction)
			shape.SetElasticity(mat.Restitution)
			shape.SetCollisionType(collisionTypeSolid)
			cw.space.AddShape(shape)
			sc.shapes = append(sc.shapes, shape)
		}
	}

	cw.chains[layer] = sc
	log.Printf("CollisionWorld: layer %s: %d chains, %d segments", layer, len(chains), len(sc.shapes))
	return sc, nil
}

// Destroy removes the body and its shapes. Calling it again is a no-op.
func (sc *StaticChains) Destroy() {
	if sc == nil || sc.world == nil {
		return
	}
	sc.once.Do(func() {
		sc.world.mu.Lock()
		defer sc.world.mu.Unlock()
		sc.world.removeLocked(sc)
	})
}

// Segments returns the number of segment shapes on the body.
func (sc *StaticChains) Segments() int {
	return len(sc.shapes)
}

func (cw *CollisionWorld) removeLocked(sc *StaticChains) {
	for _, shape := range sc.shapes {
		cw.space.RemoveShape(shape)
	}
	sc.shapes = nil
	cw.space.RemoveBody(sc.body)
	if cw.chains[sc.layer] == sc {
		delete(cw.chains, sc.layer)
	}
}

// Layers returns how many layers currently own a static body.
func (cw *CollisionWorld) Layers() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return len(cw.chains)
}

// AddProbe drops a dynamic ball at pos (meters) to exercise the geometry.
func (cw *CollisionWorld) AddProbe(pos tilechain.Vec2, radius float64) *cp.Body {
	mass := 1.0
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(toVector(pos))
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0.5)
	shape.SetElasticity(0.2)
	shape.SetCollisionType(collisionTypeProbe)

	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.space.AddBody(body)
	cw.space.AddShape(shape)
	cw.probes = append(cw.probes, probe{body: body, shape: shape})
	return body
}

// ClearProbes removes every probe body.
func (cw *CollisionWorld) ClearProbes() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	for _, p := range cw.probes {
		cw.space.RemoveShape(p.shape)
		cw.space.RemoveBody(p.body)
	}
	cw.probes = nil
}

// Probes returns the current probe bodies.
func (cw *CollisionWorld) Probes() []*cp.Body {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	out := make([]*cp.Body, len(cw.probes))
	for i, p := range cw.probes {
		out[i] = p.body
	}
	return out
}

// Step advances the simulation by dt seconds.
func (cw *CollisionWorld) Step(dt float64) {
	if cw == nil || cw.space == nil {
		return
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.space.Step(dt)
}

func toVector(v tilechain.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

var _ tilechain.ChainBuilder = (*CollisionWorld)(nil)
