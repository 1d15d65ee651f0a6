package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/scenario"
	"github.com/Garsondee/maze-pursuit/internal/view"
)

func main() {
	path := flag.String("scenario", "", "scenario YAML file (default: built-in classic)")
	verbose := flag.Bool("verbose", false, "log every decision and step")
	flag.Parse()

	sc := scenario.Default()
	if *path != "" {
		var err error
		if sc, err = scenario.Load(*path); err != nil {
			log.Fatal(err)
		}
	}
	if *verbose {
		sc.Verbose = true
	}

	g, err := view.New(func() (*game.Sim, error) { return sc.Build() })
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Maze Pursuit")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
