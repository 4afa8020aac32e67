package tilechain

import (
	"errors"
	"math"
	"testing"
)

type fakeBody struct {
	layer     string
	chains    int
	destroyed bool
}

func (b *fakeBody) Destroy() { b.destroyed = true }

type fakeBuilder struct {
	bodies []*fakeBody
	err    error
}

func (f *fakeBuilder) CreateStaticChains(layer string, chains []Chain) (BodyHandle, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := &fakeBody{layer: layer, chains: len(chains)}
	f.bodies = append(f.bodies, b)
	return b, nil
}

func TestEmitChainsScalesToWorld(t *testing.T) {
	loops := []Loop{{{0, 0}, {3, 0}, {3, 2}}}
	opts := EmitOptions{CellSize: 16, Scale: 2, PixelsPerMeter: 32, Material: Material{Friction: 0.4, Restitution: 0.2}}
	chains := EmitChains(loops, opts)
	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(chains))
	}
	c := chains[0]
	want := []Vec2{{0, 0}, {3, 0}, {3, 2}}
	for i := range want {
		if math.Abs(c.Vertices[i].X-want[i].X) > 1e-9 || math.Abs(c.Vertices[i].Y-want[i].Y) > 1e-9 {
			t.Fatalf("vertex %d: expected %v, got %v", i, want[i], c.Vertices[i])
		}
	}
	if len(c.Materials) != len(c.Vertices) {
		t.Fatalf("expected one material per vertex, got %d for %d", len(c.Materials), len(c.Vertices))
	}
	for _, m := range c.Materials {
		if m != opts.Material {
			t.Fatalf("expected uniform material %+v, got %+v", opts.Material, m)
		}
	}
	if !c.Loop {
		t.Fatalf("extracted chains are closed loops")
	}
}

func TestExtractDefaults(t *testing.T) {
	layer := newTextLayer(
		"##",
		"##",
	)
	layer.cell = 30
	r, err := Extract(layer, Options{CollisionTags: []string{"wall"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if r.Layer != "test" || len(r.Loops) != 1 || len(r.Chains) != 1 {
		t.Fatalf("unexpected result %+v", r)
	}
	// 30px cells at the default 30 px/m land on whole meters.
	for i, v := range r.Chains[0].Vertices {
		p := r.Loops[0][i]
		if v.X != float64(p.X) || v.Y != float64(p.Y) {
			t.Fatalf("vertex %d: expected %v, got %v", i, p, v)
		}
	}
	if r.Chains[0].Materials[0] != DefaultMaterial() {
		t.Fatalf("expected default material, got %+v", r.Chains[0].Materials[0])
	}
	if r.Body != nil {
		t.Fatalf("body is only set by Emit")
	}
}

func TestExtractTagsMatchExactly(t *testing.T) {
	layer := newTextLayer("#x")
	cases := []struct {
		name  string
		tags  []string
		loops int
		verts int
	}{
		{"wall_only", []string{"wall"}, 1, 4},
		{"both", []string{"wall", "spike"}, 1, 6},
		{"case_sensitive", []string{"Wall"}, 0, 0},
		{"none", nil, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := Extract(layer, Options{CollisionTags: c.tags})
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if len(r.Loops) != c.loops {
				t.Fatalf("expected %d loops, got %d", c.loops, len(r.Loops))
			}
			if c.loops > 0 && len(r.Loops[0]) != c.verts {
				t.Fatalf("expected %d vertices, got %d", c.verts, len(r.Loops[0]))
			}
		})
	}
}

func TestExtractInvalidOptions(t *testing.T) {
	layer := newTextLayer("#")
	cases := []struct {
		name   string
		mutate func(*textLayer, *Options)
	}{
		{"negative_scale", func(_ *textLayer, o *Options) { o.Scale = -1 }},
		{"negative_ppm", func(_ *textLayer, o *Options) { o.PixelsPerMeter = -30 }},
		{"negative_guard", func(_ *textLayer, o *Options) { o.MaxLoopVertices = -1 }},
		{"zero_cell", func(l *textLayer, _ *Options) { l.cell = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := *layer
			opts := Options{CollisionTags: []string{"wall"}}
			c.mutate(&l, &opts)
			if _, err := Extract(&l, opts); !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestExtractLayersKeepsOrder(t *testing.T) {
	a := newTextLayer("#")
	a.name = "a"
	b := newTextLayer("###", "#.#", "###")
	b.name = "b"
	c := newTextLayer("...")
	c.name = "c"

	results, err := ExtractLayers([]TileLayer{a, b, c}, Options{CollisionTags: []string{"wall"}})
	if err != nil {
		t.Fatalf("extract layers: %v", err)
	}
	wantLoops := map[string]int{"a": 1, "b": 2, "c": 0}
	for i, name := range []string{"a", "b", "c"} {
		if results[i].Layer != name {
			t.Fatalf("result %d: expected layer %s, got %s", i, name, results[i].Layer)
		}
		if len(results[i].Loops) != wantLoops[name] {
			t.Fatalf("layer %s: expected %d loops, got %d", name, wantLoops[name], len(results[i].Loops))
		}
	}

	bad := newTextLayer("#")
	bad.cell = -4
	if _, err := ExtractLayers([]TileLayer{a, bad}, Options{}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected layer error to surface, got %v", err)
	}
}

func TestEmitRecordsBody(t *testing.T) {
	r, err := Extract(newTextLayer("#.#"), Options{CollisionTags: []string{"wall"}})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	builder := &fakeBuilder{}
	if err := Emit(r, builder); err != nil {
		t.Fatalf("emit: %v", err)
	}
	body, ok := r.Body.(*fakeBody)
	if !ok || body.chains != 2 || body.layer != "test" {
		t.Fatalf("expected body for 2 chains, got %#v", r.Body)
	}

	empty, _ := Extract(newTextLayer("..."), Options{CollisionTags: []string{"wall"}})
	if err := Emit(empty, builder); err != nil || empty.Body != nil {
		t.Fatalf("empty layer should not create a body, got %v %v", empty.Body, err)
	}
	if len(builder.bodies) != 1 {
		t.Fatalf("expected 1 body created, got %d", len(builder.bodies))
	}

	failing := &fakeBuilder{err: errors.New("space locked")}
	if err := Emit(r, failing); err == nil {
		t.Fatalf("expected builder error")
	}
}
