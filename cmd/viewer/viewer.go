package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/mmpx"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/milk9111/actorsim/scene"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tps        = 50

	// turnStep is how far the arrow keys turn the hero per tick.
	turnStep = common.Angle17 * 2
)

// Viewer steps a scene and draws it from above.
type Viewer struct {
	name    string
	cfg     scene.Config
	scene   *scene.Scene
	watcher *prefabs.Watcher
	scaler  *mmpx.Scaler
	minimap *minimap
	pause   *pausePanel

	debug    bool
	paused   bool
	stepOnce bool
	manual   bool
	selected int
	heroPath string
	lastErr  error
}

func NewViewer(name string, cfg scene.Config, debug, watch bool) (*Viewer, error) {
	s, err := scene.Load(name, cfg)
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		name:     name,
		cfg:      cfg,
		scene:    s,
		scaler:   mmpx.NewScaler(0, mmpx.DefaultBandRows),
		debug:    debug,
		selected: max(s.Hero(), 0),
	}
	v.minimap = newMinimap(v.scaler)
	v.pause = newPausePanel(v)

	if dirs := prefabs.Dirs(); watch && len(dirs) > 0 {
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			logger.Log.WithError(err).Warn("prefab watcher disabled")
		} else {
			v.watcher = w
			logger.Log.WithField("dirs", dirs).Info("watching prefabs")
		}
	}
	return v, nil
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
	_ = v.scene.Close()
	v.scaler.Close()
}

func (v *Viewer) Update() error {
	v.applyChanges()
	v.handleInput()
	if v.paused {
		v.pause.update(v)
	}

	step := v.stepOnce || inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	v.stepOnce = false
	if v.paused && !step {
		return nil
	}
	if err := v.scene.Update(); err != nil {
		// Keep the window up on data errors; R reloads.
		logger.Log.WithError(err).Error("tick failed")
		v.lastErr = err
		v.paused = true
	}
	return nil
}

func (v *Viewer) applyChanges() {
	if v.watcher == nil {
		return
	}
	select {
	case err := <-v.watcher.Errors:
		if err != nil {
			logger.Log.WithError(err).Warn("prefab watcher")
		}
	default:
	}

	changed := v.watcher.Drain()
	if len(changed) == 0 {
		return
	}
	for _, path := range changed {
		if prefabs.IsSpecFile(path) && pathMatches(path, v.name) {
			v.reload()
			return
		}
	}
	if err := v.scene.Reload(changed); err != nil {
		logger.Log.WithError(err).Error("reload failed")
		v.lastErr = err
		return
	}
	v.lastErr = nil
}

// reload rebuilds the scene from its prefab, keeping the old one on failure.
func (v *Viewer) reload() {
	s, err := scene.Load(v.name, v.cfg)
	if err != nil {
		logger.Log.WithError(err).Error("scene reload failed")
		v.lastErr = err
		return
	}
	_ = v.scene.Close()
	v.scene = s
	v.manual = false
	v.lastErr = nil
	if v.selected >= s.Actors().Len() {
		v.selected = max(s.Hero(), 0)
	}
}

func (v *Viewer) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.paused = !v.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		v.debug = !v.debug
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if n := v.scene.Actors().Len(); n > 0 {
			v.selected = (v.selected + 1) % n
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		v.toggleManual()
	}
	if v.manual {
		v.driveHero()
	}
}

// toggleManual hands the hero over to the keyboard, detaching its script.
func (v *Viewer) toggleManual() {
	hero := v.scene.Hero()
	if hero < 0 {
		return
	}
	scripts := v.scene.Scripts()
	v.manual = !v.manual
	if v.manual {
		v.heroPath, _ = scripts.Script(hero)
		scripts.Assign(hero, "")
		return
	}
	scripts.Assign(hero, v.heroPath)
}

func (v *Viewer) driveHero() {
	hero := v.scene.Hero()
	a := v.scene.Actors().Get(hero)
	if a.Dormant() || a.Dead() {
		return
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		a.Angle = common.ClampAngle(a.Angle + turnStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		a.Angle = common.ClampAngle(a.Angle - turnStep)
	}

	want := actor.Standing
	typ := actor.AnimLoop
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		want, typ = actor.Kick, actor.AnimOnce
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		want, typ = actor.ThrowBall, actor.AnimOnce
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		want = actor.Forward
	case a.AnimType == actor.AnimOnce:
		return
	}
	if _, err := v.scene.Controller().SwitchAnimation(hero, want, typ, actor.Standing); err != nil {
		logger.ForActor(hero).WithError(err).Error("switch animation")
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	focus := common.Vec3{}
	if a := v.scene.Actors().Get(v.selected); a != nil {
		focus = a.Pos
	}
	cam := newCamera(screen.Bounds().Dx(), screen.Bounds().Dy(), focus)
	drawBricks(screen, v.scene.Grid(), cam)
	drawActors(screen, v.scene, cam, v.selected, v.debug)
	v.minimap.draw(screen, v.scene)
	drawHUD(screen, v)
	if v.paused {
		v.pause.draw(screen)
	}
}

func (v *Viewer) status() string {
	state := "running"
	switch {
	case v.lastErr != nil:
		state = fmt.Sprintf("error: %v", v.lastErr)
	case v.paused:
		state = "paused"
	}
	mode := "script"
	if v.manual {
		mode = "manual"
	}
	return fmt.Sprintf("%s  tick %d  %s  hero: %s  FPS %.1f", v.scene.Name, v.scene.Clock().Now(), state, mode, ebiten.ActualFPS())
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func pathMatches(path, name string) bool {
	return len(path) >= len(name) && path[len(path)-len(name):] == name
}
