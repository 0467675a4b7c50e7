package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/milk9111/actorsim/scene"
)

func main() {
	sceneName := flag.String("scene", "scenes/demo.yaml", "scene prefab to load")
	debug := flag.Bool("debug", false, "enable debug logging and overlays")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", true, "reload prefabs when they change on disk")
	flag.Parse()

	engine, err := prefabs.LoadEngineSpec()
	if err != nil {
		logger.Log.WithError(err).Fatal("load engine config")
	}
	level := engine.Log.Level
	if *debug {
		level = "debug"
	}
	logger.Init(level, engine.Log.Format)

	cfg, err := scene.ConfigFromEngine(engine)
	if err != nil {
		logger.Log.WithError(err).Fatal("engine config")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("actorsim")
	ebiten.SetTPS(tps)

	v, err := NewViewer(*sceneName, cfg, *debug, *watch)
	if err != nil {
		logger.Log.WithError(err).Fatal("load scene")
	}
	defer v.Close()

	if err := ebiten.RunGame(v); err != nil {
		logger.Log.WithError(err).Fatal("viewer stopped")
	}
}
