package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/tilechains/obj"
	"github.com/milk9111/tilechains/prefabs"
	"github.com/milk9111/tilechains/tilechain"
)

func main() {
	levelName := flag.String("level", "arena", "level name in levels/, or a .json/.tmx path")
	ldtkPath := flag.String("ldtk", "", "LDtk project to load instead of -level")
	ldtkLevel := flag.String("ldtk-level", "", "LDtk level identifier (default: first level)")
	specPath := flag.String("spec", "", "extraction spec file (default: prefabs/extraction.yaml)")
	out := flag.String("o", "", "write YAML here instead of stdout")
	flag.Parse()

	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}
	lvl, err := obj.LoadSource(obj.Source{Level: *levelName, LDtkPath: *ldtkPath, LDtkLevel: *ldtkLevel})
	if err != nil {
		log.Fatal(err)
	}

	results, err := extract(lvl, spec)
	if err != nil {
		log.Fatal(err)
	}
	b, err := obj.ExportYAML(lvl.Source, results)
	if err != nil {
		log.Fatal(err)
	}

	if *out == "" {
		fmt.Print(string(b))
		return
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

func loadSpec(path string) (*prefabs.ExtractionSpec, error) {
	if path != "" {
		return prefabs.LoadExtractionSpecFile(path)
	}
	return prefabs.LoadExtractionSpec()
}

// extract runs the spec over every allowed collision layer without a
// physics world.
func extract(lvl *obj.Level, spec *prefabs.ExtractionSpec) ([]*tilechain.LayerResult, error) {
	var layers []tilechain.TileLayer
	for _, ly := range lvl.CollisionLayers() {
		if spec.AllowsLayer(ly.Name()) {
			layers = append(layers, ly)
		}
	}
	return tilechain.ExtractLayers(layers, spec.Options())
}
