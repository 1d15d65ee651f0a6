package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/maze-pursuit/internal/scenario"
	"github.com/Garsondee/maze-pursuit/internal/term"
)

func main() {
	path := flag.String("scenario", "", "scenario YAML file (default: built-in classic)")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	debug := flag.String("debug", "", "write log output to this file")
	flag.Parse()

	// The terminal belongs to the presenter; logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if *debug != "" {
		f, err := os.OpenFile(*debug, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	sc := scenario.Default()
	if *path != "" {
		var err error
		if sc, err = scenario.Load(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	p, err := term.New(screen, sc.Build)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to build scenario: %v\n", err)
		os.Exit(1)
	}
	log.Printf("scenario %s: %d agents", sc.Name, len(p.Sim().Agents()))

	runErr := p.Run(*tps)
	screen.Fini()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}
