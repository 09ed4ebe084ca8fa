package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/sim"
)

func main() {
	debug := flag.Bool("debug", false, "start with the debug overlay on")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	scriptName := flag.String("script", "", "motion program in prefabs/scripts (basename, .tengo optional)")
	width := flag.Int("width", common.BaseWidth, "initial window width")
	height := flag.Int("height", common.BaseHeight, "initial window height")
	verbose := flag.Bool("v", false, "log control events")
	watch := flag.Bool("watch", false, "reload controls, camera and scripts when files under prefabs/ change")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Robotic Arm")

	s, err := sim.New(sim.Options{Debug: *debug, Verbose: *verbose, Script: *scriptName})
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher()
		if err != nil {
			log.Printf("prefabs: watch %s: %v", prefabs.Dir, err)
		} else {
			defer watcher.Close()
		}
	}

	game := NewGame(s, watcher)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
