// Package scene assembles the actor systems around one brick map and steps
// them tick by tick.
package scene

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/asset"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/entity"
	"github.com/milk9111/actorsim/grid"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/milk9111/actorsim/system"
	"github.com/sirupsen/logrus"
)

// defaultLife is given to actors whose prefab leaves life unset.
const defaultLife int32 = 50

type Config struct {
	TickStep       int32
	FallStep       int32
	WallCollision  bool
	PoseArenaSlots int
	MaxActors      int
	HeroBehaviour  system.HeroBehaviour
	MagicLevel     int
	EventCapacity  int
}

func DefaultConfig() Config {
	return Config{
		TickStep:       prefabs.DefaultTickStep,
		FallStep:       prefabs.DefaultFallStep,
		WallCollision:  true,
		PoseArenaSlots: anim.DefaultArenaSlots,
		MaxActors:      actor.MaxActors,
	}
}

// ConfigFromEngine converts the engine prefab into a scene config.
func ConfigFromEngine(spec *prefabs.EngineSpec) (Config, error) {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg, nil
	}
	behaviour, err := system.ParseHeroBehaviour(spec.HeroBehaviour)
	if err != nil {
		return cfg, fmt.Errorf("scene: engine config: %w", err)
	}
	if spec.TickStep > 0 {
		cfg.TickStep = spec.TickStep
	}
	if spec.FallStep != 0 {
		cfg.FallStep = spec.FallStep
	}
	if spec.PoseArenaSlots > 0 {
		cfg.PoseArenaSlots = spec.PoseArenaSlots
	}
	if spec.MaxActors > 0 {
		cfg.MaxActors = spec.MaxActors
	}
	cfg.WallCollision = spec.WallCollision
	cfg.HeroBehaviour = behaviour
	cfg.MagicLevel = spec.MagicLevel
	return cfg, nil
}

// Scene owns every actor of one map and the systems that move them.
type Scene struct {
	Name string

	cfg        Config
	clock      *system.Clock
	actors     *actor.Table
	catalog    *entity.Catalog
	grid       *grid.Grid
	source     asset.Source
	library    *anim.Library
	arena      *anim.PoseArena
	env        *system.Env
	game       *gameState
	effects    *EffectLog
	controller *system.Controller
	dispatcher *system.Dispatcher
	scripts    *system.ScriptSystem
	resolver   *system.Resolver
	scheduler  *system.Scheduler

	entityFiles  []string
	manifestFile string
	closer       io.Closer
}

// New returns an empty scene reading animations from source.
func New(cfg Config, source asset.Source) *Scene {
	s := &Scene{
		cfg:     cfg,
		clock:   system.NewClock(cfg.TickStep),
		actors:  actor.NewTable(cfg.MaxActors),
		catalog: entity.NewCatalog(),
		grid:    grid.New(),
		source:  source,
		library: anim.NewLibrary(source),
		arena:   anim.NewPoseArena(cfg.PoseArenaSlots),
		game:    &gameState{magicLevel: cfg.MagicLevel, behaviour: cfg.HeroBehaviour},
	}
	s.effects = newEffectLog(s.clock, cfg.EventCapacity)
	s.env = &system.Env{
		Actors:  s.actors,
		Terrain: s.grid,
		Audio:   s.effects,
		Extras:  s.effects,
		Game:    s.game,
		Hits:    s.effects,
		Hero:    -1,
	}
	s.dispatcher = system.NewDispatcher(s.env, s.catalog)
	s.controller = system.NewController(s.env, s.catalog, s.library, s.arena, s.dispatcher, s.clock)
	s.scripts = system.NewScriptSystem(s.env, s.controller, s.clock)
	s.resolver = system.NewResolver(s.env, s.controller, s.clock, system.ResolverConfig{
		FallStep:      cfg.FallStep,
		WallCollision: cfg.WallCollision,
	})
	s.effects.actors = s.actors
	s.effects.controller = s.controller
	s.effects.game = s.game

	s.scheduler = system.NewScheduler(
		system.SystemFunc(s.beginTick),
		s.scripts,
		s.resolver,
	)
	return s
}

// Load reads a scene prefab together with its entities and animations.
func Load(name string, cfg Config) (*Scene, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return nil, err
	}

	var (
		source   asset.Source
		closer   io.Closer
		manifest string
	)
	switch {
	case spec.Pack != "":
		bolt, err := asset.OpenBolt(spec.Pack)
		if err != nil {
			return nil, fmt.Errorf("scene: %s: %w", name, err)
		}
		source, closer = bolt, bolt
	case spec.Animations != "":
		mem, err := loadManifest(spec.Animations)
		if err != nil {
			return nil, fmt.Errorf("scene: %s: %w", name, err)
		}
		source, manifest = mem, spec.Animations
	default:
		return nil, fmt.Errorf("scene: %s: no animation pack or manifest", name)
	}

	s := New(cfg, source)
	s.closer = closer
	s.manifestFile = manifest
	if err := s.Build(spec); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("scene: %s: %w", name, err)
	}
	logger.Log.WithFields(logrus.Fields{
		"scene":    s.Name,
		"actors":   s.actors.Len(),
		"entities": len(s.entityFiles),
	}).Info("scene loaded")
	return s, nil
}

func loadManifest(name string) (*asset.MemorySource, error) {
	m, err := prefabs.LoadAnimationManifest(name)
	if err != nil {
		return nil, err
	}
	buffers, err := asset.EncodeManifest(m, prefabs.Load)
	if err != nil {
		return nil, err
	}
	return asset.NewMemorySource(buffers), nil
}

// Build registers the scene's entities, lays its bricks and spawns its actors.
func (s *Scene) Build(spec *prefabs.SceneSpec) error {
	s.Name = spec.Name
	for id, file := range spec.Entities {
		es, err := prefabs.LoadEntitySpec(file)
		if err != nil {
			return err
		}
		if err := s.catalog.Register(id, es); err != nil {
			return err
		}
		s.entityFiles = append(s.entityFiles, file)
	}

	for i, fill := range spec.Bricks {
		shape, err := grid.ParseShape(fill.Shape)
		if err != nil {
			return fmt.Errorf("bricks[%d]: %w", i, err)
		}
		sound := grid.SilentSound
		if fill.Sound != nil {
			sound = *fill.Sound
		}
		s.grid.Fill(cell(fill.From), cell(fill.To), shape, sound)
	}

	for i, as := range spec.Actors {
		if _, err := s.AddActor(as); err != nil {
			return fmt.Errorf("actors[%d] %s: %w", i, as.Name, err)
		}
	}

	if spec.Hero >= 0 && spec.Hero < s.actors.Len() {
		s.env.Hero = spec.Hero
	}
	return nil
}

func cell(v prefabs.Vec3Spec) grid.Cell {
	return grid.Cell{X: v.X, Y: v.Y, Z: v.Z}
}

func vec(v prefabs.Vec3Spec) common.Vec3 {
	return common.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// RegisterEntity adds or replaces an entity by id.
func (s *Scene) RegisterEntity(id int, spec *prefabs.EntitySpec) error {
	return s.catalog.Register(id, spec)
}

// AddActor spawns an actor and starts its initial animation.
func (s *Scene) AddActor(spec prefabs.ActorSpec) (int, error) {
	body, ok := s.catalog.Body(spec.Entity)
	if !ok {
		return -1, fmt.Errorf("unknown entity %d", spec.Entity)
	}
	static, moving, err := ParseFlags(spec.Flags)
	if err != nil {
		return -1, err
	}

	a := actor.New()
	a.Bind(spec.Entity, body.Bones)
	a.Name = spec.Name
	a.Static = static
	a.Dynamic.SpriteMoving = moving
	a.Pos = vec(spec.Pos)
	a.CollisionPos = a.Pos
	a.DoorAnchor = a.Pos
	a.Angle = common.ClampAngle(spec.Angle)
	a.Speed = spec.Speed
	a.SpriteAngle = common.ClampAngle(spec.SpriteAngle)
	a.DoorStatus = spec.Door
	a.BoundingBox = actor.BoundingBox{Min: vec(spec.Box.Min), Max: vec(spec.Box.Max)}
	a.Life = spec.Life
	if a.Life == 0 {
		a.Life = defaultLife
	}

	index, err := s.actors.Add(a)
	if err != nil {
		return -1, err
	}

	if !a.Static.IsSpriteActor {
		id := actor.Standing
		if spec.Anim != "" {
			if id, err = actor.ParseAnimationID(spec.Anim); err != nil {
				return index, err
			}
		}
		res, err := s.controller.SwitchAnimation(index, id, actor.AnimLoop, actor.Standing)
		if err != nil {
			return index, err
		}
		if res == system.Rejected && body.Animated {
			logger.ForActor(index).WithField("anim", id.String()).Warn("initial animation rejected")
		}
	}

	script := spec.Script
	if script == "" {
		if es, ok := s.catalog.Spec(spec.Entity); ok {
			script = es.Script
		}
	}
	s.scripts.Assign(index, script)
	return index, nil
}

var flagSetters = map[string]func(f *actor.StaticFlags){
	"objects":       func(f *actor.StaticFlags) { f.ComputeCollisionWithObj = true },
	"bricks":        func(f *actor.StaticFlags) { f.ComputeCollisionWithBricks = true },
	"low_collision": func(f *actor.StaticFlags) { f.ComputeLowCollision = true },
	"sprite":        func(f *actor.StaticFlags) { f.IsSpriteActor = true },
	"can_fall":      func(f *actor.StaticFlags) { f.CanFall = true },
	"pushable":      func(f *actor.StaticFlags) { f.CanBePushed = true },
	"mini_zv":       func(f *actor.StaticFlags) { f.UseMiniZv = true },
	"carrier":       func(f *actor.StaticFlags) { f.IsCarrier = true },
}

// ParseFlags turns actor flag names into static flags. "moving" starts a
// sprite actor in motion.
func ParseFlags(names []string) (actor.StaticFlags, bool, error) {
	var (
		flags  actor.StaticFlags
		moving bool
	)
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "moving" {
			moving = true
			continue
		}
		set, ok := flagSetters[n]
		if !ok {
			return flags, false, fmt.Errorf("unknown actor flag %q", name)
		}
		set(&flags)
	}
	return flags, moving, nil
}

// beginTick snapshots the position each actor starts the tick from.
func (s *Scene) beginTick(index int) error {
	a := s.actors.Get(index)
	if a.Dormant() {
		return nil
	}
	a.CollisionPos = a.Pos
	a.Dynamic.BrickCausesDamage = false
	return nil
}

// Update advances the clock one step and runs every system over every actor.
func (s *Scene) Update() error {
	now := s.clock.Advance()
	s.game.tick(now)
	if err := s.scheduler.Update(s.actors.Len()); err != nil {
		return fmt.Errorf("scene %s: tick %d: %w", s.Name, now, err)
	}
	return nil
}

// Reload applies changed prefab files. Layout changes to the scene file
// itself need a fresh Load.
func (s *Scene) Reload(paths []string) error {
	var errs []error
	for _, path := range paths {
		switch {
		case prefabs.IsScriptFile(path):
			s.scripts.Invalidate()
			logger.Log.WithField("path", path).Info("scripts reloaded")
		case s.manifestFile != "" && samePrefab(path, s.manifestFile):
			if err := s.reloadManifest(); err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Log.WithField("path", path).Info("animations reloaded")
		default:
			id := s.entityID(path)
			if id < 0 {
				logger.Log.WithField("path", path).Debug("change ignored")
				continue
			}
			spec, err := prefabs.LoadEntitySpec(s.entityFiles[id])
			if err == nil {
				err = s.catalog.Register(id, spec)
			}
			if err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Log.WithFields(logrus.Fields{"path": path, "entity": id}).Info("entity reloaded")
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) reloadManifest() error {
	mem, ok := s.source.(*asset.MemorySource)
	if !ok {
		return nil
	}
	fresh, err := loadManifest(s.manifestFile)
	if err != nil {
		return err
	}
	for _, idx := range fresh.Indices() {
		buf, _ := fresh.Animation(idx)
		mem.Put(idx, buf)
	}
	s.library.Invalidate()
	return nil
}

func (s *Scene) entityID(path string) int {
	for id, file := range s.entityFiles {
		if samePrefab(path, file) {
			return id
		}
	}
	return -1
}

// samePrefab matches a watched disk path against a prefab-relative name.
func samePrefab(path, name string) bool {
	p := strings.ReplaceAll(path, "\\", "/")
	n := strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "prefabs/")
	return p == n || strings.HasSuffix(p, "/"+n)
}

func (s *Scene) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *Scene) Clock() *system.Clock           { return s.clock }
func (s *Scene) Actors() *actor.Table           { return s.actors }
func (s *Scene) Grid() *grid.Grid               { return s.grid }
func (s *Scene) Catalog() *entity.Catalog       { return s.catalog }
func (s *Scene) Controller() *system.Controller { return s.controller }
func (s *Scene) Scripts() *system.ScriptSystem  { return s.scripts }
func (s *Scene) Resolver() *system.Resolver     { return s.resolver }
func (s *Scene) Effects() *EffectLog            { return s.effects }
func (s *Scene) Config() Config                 { return s.cfg }

// Hero returns the hero's index, or -1 when the scene has none.
func (s *Scene) Hero() int { return s.env.Hero }

// MagicBallActive reports whether a thrown magic ball is still in flight.
func (s *Scene) MagicBallActive() bool { return s.game.ballActive }
