package obj

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/milk9111/tilechains/prefabs"
	"github.com/milk9111/tilechains/tilechain"
	"gopkg.in/yaml.v3"
)

func loadArena(t *testing.T) *Level {
	t.Helper()
	lvl, err := LoadLevel("testdata/arena.json")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	return lvl
}

func arenaSpec() *prefabs.ExtractionSpec {
	return &prefabs.ExtractionSpec{
		CollisionTags:  []string{TagSolid, TagTile},
		Scale:          1,
		PixelsPerMeter: 16,
		Material:       tilechain.DefaultMaterial(),
		Gravity:        10,
	}
}

func TestLevelServiceInitAndDispose(t *testing.T) {
	world := NewCollisionWorld(10, 16)
	svc, err := NewLevelService(arenaSpec(), world)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}

	if err := svc.Init(loadArena(t)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	results := svc.Results()
	if len(results) != 1 || results[0].Layer != "ground" {
		t.Fatalf("expected one ground result, got %v", results)
	}
	// platform (6 vertices) is scanned before the floor (12 vertices)
	if len(results[0].Loops) != 2 || len(results[0].Loops[0]) != 6 || len(results[0].Loops[1]) != 12 {
		t.Fatalf("unexpected loops %v", results[0].Loops)
	}
	if world.Layers() != 1 {
		t.Fatalf("expected one static body, got %d", world.Layers())
	}
	body, ok := results[0].Body.(*StaticChains)
	if !ok {
		t.Fatalf("expected StaticChains body, got %T", results[0].Body)
	}
	if body.Segments() != 18 {
		t.Fatalf("expected 18 segments, got %d", body.Segments())
	}

	// re-init replaces the previous bodies
	if err := svc.Init(loadArena(t)); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if world.Layers() != 1 {
		t.Fatalf("expected bodies to be replaced, got %d", world.Layers())
	}

	svc.Dispose()
	svc.Dispose()
	if world.Layers() != 0 {
		t.Fatalf("expected no bodies after Dispose, got %d", world.Layers())
	}
	if svc.Level() != nil || svc.Results() != nil {
		t.Fatalf("expected service state cleared")
	}
}

func TestLevelServiceLayerAllowList(t *testing.T) {
	spec := arenaSpec()
	spec.Layers = []string{"decor"}
	world := NewCollisionWorld(10, 16)
	svc, err := NewLevelService(spec, world)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}
	if err := svc.Init(loadArena(t)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(svc.Results()) != 0 || world.Layers() != 0 {
		t.Fatalf("expected ground to be filtered out")
	}
}

type failingBuilder struct {
	created []*recordingBody
	failOn  string
}

type recordingBody struct{ destroyed bool }

func (b *recordingBody) Destroy() { b.destroyed = true }

func (f *failingBuilder) CreateStaticChains(layer string, chains []tilechain.Chain) (tilechain.BodyHandle, error) {
	if layer == f.failOn {
		return nil, errors.New("boom")
	}
	body := &recordingBody{}
	f.created = append(f.created, body)
	return body, nil
}

func TestLevelServiceEmitFailureRollsBack(t *testing.T) {
	lvl, err := NewLevel(2, 1, 16, [][]int{{1, 0}, {0, 1}}, []LayerMeta{
		{Name: "a", HasPhysics: true},
		{Name: "b", HasPhysics: true},
	})
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	builder := &failingBuilder{failOn: "b"}
	svc, err := NewLevelService(arenaSpec(), builder)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}
	err = svc.Init(lvl)
	if err == nil || !strings.Contains(err.Error(), "emit layer b") {
		t.Fatalf("expected emit error for layer b, got %v", err)
	}
	if len(builder.created) != 1 || !builder.created[0].destroyed {
		t.Fatalf("expected layer a body to be destroyed on failure")
	}
	if svc.Results() != nil {
		t.Fatalf("expected no results after failed Init")
	}
}

func TestNewLevelServiceRejectsNil(t *testing.T) {
	if _, err := NewLevelService(nil, NewCollisionWorld(10, 0)); err == nil {
		t.Fatalf("expected error for nil spec")
	}
	if _, err := NewLevelService(arenaSpec(), nil); err == nil {
		t.Fatalf("expected error for nil builder")
	}
}

func TestCollisionWorldRejectsDuplicateLayer(t *testing.T) {
	world := NewCollisionWorld(10, 16)
	chain := tilechain.Chain{
		Vertices: []tilechain.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Loop:     true,
	}
	h, err := world.CreateStaticChains("ground", []tilechain.Chain{chain})
	if err != nil {
		t.Fatalf("CreateStaticChains: %v", err)
	}
	if _, err := world.CreateStaticChains("ground", []tilechain.Chain{chain}); err == nil {
		t.Fatalf("expected duplicate layer error")
	}
	h.Destroy()
	if _, err := world.CreateStaticChains("ground", []tilechain.Chain{chain}); err != nil {
		t.Fatalf("expected layer to be reusable after Destroy: %v", err)
	}
}

func TestCollisionWorldRejectsShortChain(t *testing.T) {
	world := NewCollisionWorld(10, 16)
	_, err := world.CreateStaticChains("bad", []tilechain.Chain{{Vertices: []tilechain.Vec2{{}, {X: 1}}}})
	if err == nil {
		t.Fatalf("expected error for a two-vertex chain")
	}
	if world.Layers() != 0 {
		t.Fatalf("expected failed layer to leave no body")
	}
}

func TestProbeRestsOnFloor(t *testing.T) {
	world := NewCollisionWorld(10, 16)
	svc, err := NewLevelService(arenaSpec(), world)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}
	if err := svc.Init(loadArena(t)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// column 0 is clear down to the floor at y = 3 cells = 3 m at 16 ppm
	radius := 0.25
	probe := world.AddProbe(tilechain.Vec2{X: 0.5, Y: 0.5}, radius)
	for i := 0; i < 240; i++ {
		world.Step(1.0 / 60.0)
	}
	pos := probe.Position()
	floor := 3.0
	// chipmunk tolerates a little penetration (collision slop)
	if pos.Y > floor-radius+0.12 || pos.Y < floor-radius-0.1 {
		t.Fatalf("expected probe resting on floor near y=%.2f, got %.3f", floor-radius, pos.Y)
	}
	if math.IsNaN(pos.X) {
		t.Fatalf("probe position is NaN")
	}

	world.ClearProbes()
	if len(world.Probes()) != 0 {
		t.Fatalf("expected probes cleared")
	}
}

func TestResolvWorldStripsSitOnSolidSide(t *testing.T) {
	lvl := loadArena(t)
	w, h := lvl.PixelSize()
	world := NewResolvWorld(w, h, lvl.TileSize, 16)
	svc, err := NewLevelService(arenaSpec(), world)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}
	if err := svc.Init(lvl); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tests := []struct {
		name       string
		x, y, w, h float64
		want       bool
	}{
		// floor top edge is at y=48, strips extend down to y=50
		{name: "touching floor", x: 2, y: 40, w: 8, h: 9, want: true},
		{name: "above floor", x: 2, y: 30, w: 8, h: 9, want: false},
		// platform spans x 16..48, y 16..32
		{name: "inside platform skin", x: 20, y: 30, w: 4, h: 1, want: true},
		{name: "platform middle", x: 24, y: 22, w: 4, h: 4, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := world.Overlaps(tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}

	if !world.Overlaps(2, 40, 8, 9, "ground") {
		t.Fatalf("expected strips tagged with the layer name")
	}

	for _, r := range svc.Results() {
		if len(r.Chains) == 0 {
			continue
		}
		rc, ok := r.Body.(*ResolvChains)
		if !ok {
			t.Fatalf("layer %s: body is %T", r.Layer, r.Body)
		}
		edges := 0
		for _, c := range r.Chains {
			edges += len(c.Vertices)
		}
		if got := len(rc.Objects()); got != edges {
			t.Fatalf("layer %s: %d strips, want one per edge (%d)", r.Layer, got, edges)
		}
	}

	svc.Dispose()
	if world.Overlaps(2, 40, 8, 9) {
		t.Fatalf("expected strips removed after Dispose")
	}
}

func TestExportYAML(t *testing.T) {
	world := NewCollisionWorld(10, 16)
	svc, err := NewLevelService(arenaSpec(), world)
	if err != nil {
		t.Fatalf("NewLevelService: %v", err)
	}
	if err := svc.Init(loadArena(t)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	b, err := ExportYAML("arena", svc.Results())
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	var doc ChainExport
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal export: %v\n%s", err, b)
	}
	if doc.Level != "arena" || len(doc.Layers) != 1 {
		t.Fatalf("unexpected export header %+v", doc)
	}
	layer := doc.Layers[0]
	if layer.Name != "ground" || layer.Closed != 2 || len(layer.Chains) != 2 {
		t.Fatalf("unexpected layer export %+v", layer)
	}
	// platform starts at grid (1,1) which is 1 m at 16 ppm
	first := layer.Chains[0]
	if first.Grid[0] != [2]int{1, 1} || first.Vertices[0] != [2]float64{1, 1} {
		t.Fatalf("unexpected first vertex grid=%v world=%v", first.Grid[0], first.Vertices[0])
	}
	if first.Material != tilechain.DefaultMaterial() {
		t.Fatalf("unexpected material %+v", first.Material)
	}
}

func TestCameraScreenToWorld(t *testing.T) {
	cam := NewCamera(200, 100, 2)
	cam.SetWorldBounds(1000, 1000)
	cam.SnapTo(500, 500)

	x, y := cam.ScreenToWorld(100, 50)
	if x != 500 || y != 500 {
		t.Fatalf("expected screen center to map to (500,500), got (%v,%v)", x, y)
	}
	x, y = cam.ScreenToWorld(0, 0)
	if x != 450 || y != 475 {
		t.Fatalf("expected top-left (450,475), got (%v,%v)", x, y)
	}

	cam.SnapTo(-100, -100)
	if cam.PosX != 50 || cam.PosY != 25 {
		t.Fatalf("expected clamp to (50,25), got (%v,%v)", cam.PosX, cam.PosY)
	}

	cam.SetZoom(100)
	if cam.Zoom() != maxZoom {
		t.Fatalf("expected zoom clamp to %v, got %v", maxZoom, cam.Zoom())
	}

	small := NewCamera(200, 100, 1)
	small.SetWorldBounds(50, 50)
	small.SnapTo(0, 0)
	if small.PosX != 25 || small.PosY != 25 {
		t.Fatalf("expected small world centered, got (%v,%v)", small.PosX, small.PosY)
	}
}

func TestChainIndexFindsHoleBeforeOuter(t *testing.T) {
	lvl, err := LoadLDtk("testdata/project.ldtk", "Level_0")
	if err != nil {
		t.Fatalf("LoadLDtk: %v", err)
	}
	res, err := tilechain.Extract(lvl.CollisionLayers()[0], tilechain.Options{CollisionTags: []string{"wall"}, PixelsPerMeter: 8})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	idx := NewChainIndex([]*tilechain.LayerResult{res})
	if idx.Len() != 2 {
		t.Fatalf("expected 2 indexed chains, got %d", idx.Len())
	}

	// centre of the hole: inside both bounding boxes
	hits := idx.At(tilechain.Vec2{X: 1.5, Y: 1.5})
	if len(hits) != 2 || hits[0].Index != 1 || hits[1].Index != 0 {
		t.Fatalf("expected hole then outer, got %v", hits)
	}
	if hits[0].Layer != "Collision" {
		t.Fatalf("unexpected layer %q", hits[0].Layer)
	}

	if hits := idx.At(tilechain.Vec2{X: 0.5, Y: 0.5}); len(hits) != 1 || hits[0].Index != 0 {
		t.Fatalf("expected only the outer loop in the corner, got %v", hits)
	}
	if hits := idx.At(tilechain.Vec2{X: 5, Y: 5}); len(hits) != 0 {
		t.Fatalf("expected no hits outside, got %v", hits)
	}
}
