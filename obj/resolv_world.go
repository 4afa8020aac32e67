package obj

import (
	"fmt"
	"math"
	"sync"

	"github.com/milk9111/tilechains/common"
	"github.com/milk9111/tilechains/tilechain"
	"github.com/solarlune/resolv"
)

const (
	tagResolvSolid = "solid"
	// default strip thickness in pixels
	defaultStripThickness = 2.0
)

// ResolvWorld is a grid-broadphase alternative to CollisionWorld. Each
// chain edge becomes a thin strip object placed on the solid side of the
// edge, tagged "solid" and with the layer name. Coordinates are pixels.
type ResolvWorld struct {
	Space     *resolv.Space
	ppm       float64
	thickness float64

	mu     sync.Mutex
	layers map[string]*ResolvChains
}

// NewResolvWorld creates a space covering a w×h pixel level.
func NewResolvWorld(w, h, cellSize int, ppm float64) *ResolvWorld {
	if ppm <= 0 {
		ppm = common.PixelsPerMeter
	}
	if cellSize <= 0 {
		cellSize = common.TileSize
	}
	return &ResolvWorld{
		Space:     resolv.NewSpace(w, h, cellSize, cellSize),
		ppm:       ppm,
		thickness: defaultStripThickness,
		layers:    make(map[string]*ResolvChains),
	}
}

// ResolvChains is the set of strip objects created for one layer.
type ResolvChains struct {
	world   *ResolvWorld
	layer   string
	objects []*resolv.Object
	once    sync.Once
}

func (rw *ResolvWorld) CreateStaticChains(layer string, chains []tilechain.Chain) (tilechain.BodyHandle, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if _, ok := rw.layers[layer]; ok {
		return nil, fmt.Errorf("resolv world: layer %q already added", layer)
	}
	rc := &ResolvChains{world: rw, layer: layer}
	for _, chain := range chains {
		n := len(chain.Vertices)
		for i := 0; i < n; i++ {
			a := chain.Vertices[i]
			b := chain.Vertices[(i+1)%n]
			obj := rw.strip(a, b, layer)
			if obj == nil {
				continue
			}
			rw.Space.Add(obj)
			rc.objects = append(rc.objects, obj)
		}
	}
	rw.layers[layer] = rc
	return rc, nil
}

// strip builds the rectangle covering edge a→b extruded along its right
// normal, which points into the solid cells.
func (rw *ResolvWorld) strip(a, b tilechain.Vec2, layer string) *resolv.Object {
	ax, ay := a.X*rw.ppm, a.Y*rw.ppm
	bx, by := b.X*rw.ppm, b.Y*rw.ppm
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	nx, ny := -dy/length*rw.thickness, dx/length*rw.thickness

	minX := math.Min(math.Min(ax, bx), math.Min(ax+nx, bx+nx))
	minY := math.Min(math.Min(ay, by), math.Min(ay+ny, by+ny))
	maxX := math.Max(math.Max(ax, bx), math.Max(ax+nx, bx+nx))
	maxY := math.Max(math.Max(ay, by), math.Max(ay+ny, by+ny))

	obj := resolv.NewObject(minX, minY, maxX-minX, maxY-minY, tagResolvSolid, layer)
	obj.SetShape(resolv.NewRectangle(0, 0, maxX-minX, maxY-minY))
	return obj
}

// Destroy removes the layer's strips. Calling it again is a no-op.
func (rc *ResolvChains) Destroy() {
	if rc == nil || rc.world == nil {
		return
	}
	rc.once.Do(func() {
		rw := rc.world
		rw.mu.Lock()
		defer rw.mu.Unlock()
		rw.Space.Remove(rc.objects...)
		rc.objects = nil
		if rw.layers[rc.layer] == rc {
			delete(rw.layers, rc.layer)
		}
	})
}

// Objects returns the strip objects of the layer.
func (rc *ResolvChains) Objects() []*resolv.Object {
	return rc.objects
}

// Overlaps reports whether the pixel rectangle touches any strip carrying
// any of tags. With no tags it checks against "solid".
func (rw *ResolvWorld) Overlaps(x, y, w, h float64, tags ...string) bool {
	if len(tags) == 0 {
		tags = []string{tagResolvSolid}
	}
	rw.mu.Lock()
	defer rw.mu.Unlock()

	test := resolv.NewObject(x, y, w, h)
	rw.Space.Add(test)
	defer rw.Space.Remove(test)

	check := test.Check(0, 0, tags...)
	if check == nil {
		return false
	}
	// the broadphase is cell based; confirm with the actual bounds
	for _, o := range check.ObjectsByTags(tags...) {
		if x < o.X+o.W && o.X < x+w && y < o.Y+o.H && o.Y < y+h {
			return true
		}
	}
	return false
}
