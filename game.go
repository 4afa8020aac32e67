package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/tilechains/common"
	"github.com/milk9111/tilechains/obj"
	"github.com/milk9111/tilechains/prefabs"
	"github.com/milk9111/tilechains/tilechain"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = common.BaseWidth
	baseHeight = common.BaseHeight

	probeRadius = 0.3
)

// Config selects the level source and viewer options.
type Config struct {
	Level       string
	LDtkPath    string
	LDtkLevel   string
	SpecPath    string
	Debug       bool
	Watch       bool
	CopyEnabled bool
}

type Game struct {
	cfg Config

	spec    *prefabs.ExtractionSpec
	level   *obj.Level
	world   *obj.CollisionWorld
	service *obj.LevelService
	index   *obj.ChainIndex

	camera  *obj.Camera
	input   *obj.Input
	ui      *ebitenui.UI
	watcher *prefabs.Watcher

	debug  bool
	status string
	hover  []obj.ChainRef
}

func NewGame(cfg Config) (*Game, error) {
	camera := obj.NewCamera(baseWidth, baseHeight, 1)
	g := &Game{
		cfg:    cfg,
		camera: camera,
		input:  obj.NewInput(camera),
		debug:  cfg.Debug,
	}
	if err := g.reload(); err != nil {
		return nil, err
	}
	if g.level != nil {
		w, h := g.level.PixelSize()
		g.camera.SnapTo(float64(w)/2, float64(h)/2)
	}

	g.ui = NewHUD(g)

	if cfg.Watch {
		dirs := g.watchDirs()
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Printf("Game: watch %v: %v", dirs, err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// watchDirs lists the on-disk directories holding the spec and level.
func (g *Game) watchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	add("prefabs")
	add("levels")
	if g.cfg.SpecPath != "" {
		add(filepath.Dir(g.cfg.SpecPath))
	}
	if g.cfg.LDtkPath != "" {
		add(filepath.Dir(g.cfg.LDtkPath))
	} else if g.level != nil && g.level.Source != "" {
		add(filepath.Dir(g.level.Source))
	}
	return dirs
}

func (g *Game) loadSpec() (*prefabs.ExtractionSpec, error) {
	if g.cfg.SpecPath != "" {
		return prefabs.LoadExtractionSpecFile(g.cfg.SpecPath)
	}
	return prefabs.LoadExtractionSpec()
}

func (g *Game) loadLevel() (*obj.Level, error) {
	return obj.LoadSource(obj.Source{Level: g.cfg.Level, LDtkPath: g.cfg.LDtkPath, LDtkLevel: g.cfg.LDtkLevel})
}

// reload rebuilds the spec, level and physics world. On failure the
// previous state is kept.
func (g *Game) reload() error {
	spec, err := g.loadSpec()
	if err != nil {
		return fmt.Errorf("load spec: %w", err)
	}
	level, err := g.loadLevel()
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}

	gravity := spec.Gravity
	if gravity == 0 {
		gravity = common.Gravity
	}
	world := obj.NewCollisionWorld(gravity, spec.PixelsPerMeter)
	service, err := obj.NewLevelService(spec, world)
	if err != nil {
		return err
	}
	if err := service.Init(level); err != nil {
		return err
	}

	if g.service != nil {
		g.service.Dispose()
	}
	g.spec = spec
	g.level = level
	g.world = world
	g.service = service
	g.index = obj.NewChainIndex(service.Results())

	w, h := level.PixelSize()
	g.camera.SetWorldBounds(w, h)

	loops := 0
	for _, r := range service.Results() {
		loops += len(r.Loops)
	}
	g.status = fmt.Sprintf("%s: %d layers, %d loops", level.Source, len(service.Results()), loops)
	log.Printf("Game: loaded %s", g.status)

	// drop one probe at the level spawn
	g.dropProbe(float64(level.SpawnX*level.TileSize+level.TileSize/2), float64(level.SpawnY*level.TileSize+level.TileSize/2))
	return nil
}

func (g *Game) ppm() float64 {
	if g.spec == nil || g.spec.PixelsPerMeter <= 0 {
		return common.PixelsPerMeter
	}
	return g.spec.PixelsPerMeter
}

// dropProbe adds a ball at a world pixel position.
func (g *Game) dropProbe(px, py float64) {
	if g.world == nil {
		return
	}
	ppm := g.ppm()
	g.world.AddProbe(tilechain.Vec2{X: common.ToMeters(px, ppm), Y: common.ToMeters(py, ppm)}, probeRadius)
}

// Reload is the HUD and keyboard action.
func (g *Game) Reload() {
	if err := g.reload(); err != nil {
		g.status = "reload failed: " + err.Error()
		log.Printf("Game: %s", g.status)
	}
}

func (g *Game) ClearProbes() {
	if g.world != nil {
		g.world.ClearProbes()
	}
}

func (g *Game) ToggleDebug() {
	g.debug = !g.debug
}

// CopyChains puts the YAML export of the current chains on the clipboard.
func (g *Game) CopyChains() {
	if !g.cfg.CopyEnabled || g.service == nil {
		g.status = "clipboard unavailable"
		return
	}
	b, err := obj.ExportYAML(g.level.Source, g.service.Results())
	if err != nil {
		g.status = "export failed: " + err.Error()
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	g.status = fmt.Sprintf("copied %d bytes of chain YAML", len(b))
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Game: %s changed", name)
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Game: watch error: %v", err)
		default:
			if changed {
				g.Reload()
			}
			return
		}
	}
}

func (g *Game) Update() error {
	g.drainWatcher()

	g.input.MouseOverUI = hudContains(ebiten.CursorPosition())
	g.input.Update()
	g.input.ApplyToCamera()

	if g.input.ReloadPressed {
		g.Reload()
	}
	if g.input.ClearPressed {
		g.ClearProbes()
	}
	if g.input.DebugToggled {
		g.ToggleDebug()
	}
	if g.input.DropPressed {
		g.dropProbe(g.input.MouseWorldX, g.input.MouseWorldY)
	}

	ppm := g.ppm()
	if g.index != nil {
		g.hover = g.index.At(tilechain.Vec2{X: common.ToMeters(g.input.MouseWorldX, ppm), Y: common.ToMeters(g.input.MouseWorldY, ppm)})
	}

	g.ui.Update()
	if g.world != nil {
		g.world.Step(1.0 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	camX, camY := g.camera.ViewTopLeft()
	zoom := g.camera.Zoom()
	g.camera.Render(screen, func(view *ebiten.Image) {
		g.level.Draw(view, camX, camY, zoom)
		if g.debug {
			g.world.DebugDraw(view, camX, camY, zoom)
		}
	})

	g.ui.Draw(screen)

	msg := fmt.Sprintf("FPS: %.1f  zoom %.2f\n%s", ebiten.ActualFPS(), zoom, g.status)
	if len(g.hover) > 0 {
		h := g.hover[0]
		msg += fmt.Sprintf("\nloop %s#%d", h.Layer, h.Index)
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, baseHeight-56)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.service != nil {
		g.service.Dispose()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
