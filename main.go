package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

func main() {
	debug := flag.Bool("debug", true, "draw the physics overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "arena", "level name in levels/ (basename, .json optional), or a .json/.tmx path")
	ldtkPath := flag.String("ldtk", "", "LDtk project to load instead of -level")
	ldtkLevel := flag.String("ldtk-level", "", "LDtk level identifier (default: first level)")
	specPath := flag.String("spec", "", "extraction spec file (default: prefabs/extraction.yaml)")
	watch := flag.Bool("watch", false, "reload when the level or spec changes on disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("tilechains")

	copyEnabled := true
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
		copyEnabled = false
	}

	game, err := NewGame(Config{
		Level:       *levelName,
		LDtkPath:    *ldtkPath,
		LDtkLevel:   *ldtkLevel,
		SpecPath:    *specPath,
		Debug:       *debug,
		Watch:       *watch,
		CopyEnabled: copyEnabled,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
