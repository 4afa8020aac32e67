package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"

	"github.com/milk9111/tilechains/obj"
	"github.com/milk9111/tilechains/prefabs"
	"github.com/milk9111/tilechains/tilechain"
	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

func main() {
	levelName := flag.String("level", "arena", "level name in levels/, or a .json/.tmx path")
	ldtkPath := flag.String("ldtk", "", "LDtk project to load instead of -level")
	ldtkLevel := flag.String("ldtk-level", "", "LDtk level identifier (default: first level)")
	cell := flag.Int("cell", 16, "output pixels per cell")
	out := flag.String("o", "outline.png", "output PNG")
	flag.Parse()

	spec, err := prefabs.LoadExtractionSpec()
	if err != nil {
		log.Fatal(err)
	}
	lvl, err := obj.LoadSource(obj.Source{Level: *levelName, LDtkPath: *ldtkPath, LDtkLevel: *ldtkLevel})
	if err != nil {
		log.Fatal(err)
	}

	var layers []tilechain.TileLayer
	for _, ly := range lvl.CollisionLayers() {
		if spec.AllowsLayer(ly.Name()) {
			layers = append(layers, ly)
		}
	}
	results, err := tilechain.ExtractLayers(layers, spec.Options())
	if err != nil {
		log.Fatal(err)
	}

	img := RenderLoops(lvl.Width, lvl.Height, *cell, results)
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

// RenderLoops fills every loop with the nonzero winding rule. Holes wind
// opposite to their enclosing loop, so they stay empty when the winding is
// consistent.
func RenderLoops(w, h, cell int, results []*tilechain.LayerResult) *image.RGBA {
	bounds := image.Rect(0, 0, w*cell, h*cell)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, &image.Uniform{colornames.Black}, image.Point{}, draw.Src)

	fill := color.RGBA{R: 0x3c, G: 0x78, B: 0xff, A: 0xff}
	for _, r := range results {
		if r == nil || len(r.Loops) == 0 {
			continue
		}
		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		for _, loop := range r.Loops {
			for i, p := range loop {
				x, y := float32(p.X*cell), float32(p.Y*cell)
				if i == 0 {
					z.MoveTo(x, y)
				} else {
					z.LineTo(x, y)
				}
			}
			z.ClosePath()
		}
		z.Draw(dst, bounds, &image.Uniform{fill}, image.Point{})
	}
	return dst
}
