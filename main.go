package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/adventuretycoon/engine"
	"github.com/milk9111/adventuretycoon/game"
	"github.com/milk9111/adventuretycoon/prefabs"
)

func main() {
	configName := flag.String("config", prefabs.DefaultConfigFile, "config file in prefabs/")
	debug := flag.Bool("debug", false, "show the debug overlay")
	watch := flag.Bool("watch", false, "reload the config when prefabs/ changes")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	eng := engine.New(game.NewApp(), engine.Options{
		ConfigName: *configName,
		Debug:      *debug,
		Watch:      *watch,
	})

	if err := eng.Execute(); err != nil {
		log.Fatal(err)
	}
}
