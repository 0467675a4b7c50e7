package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/sirupsen/logrus"
)

// Life scripts define update(actor, state). The dispatch line is appended to
// every script before compiling.
const lifeDispatchScript = `
update(__actor, __state)
`

type scriptRuntime struct {
	path     string
	modTime  time.Time
	compiled *tengo.Compiled
	state    *tengo.Map
	// broken marks a script that failed to compile; it is retried once the
	// file changes.
	broken bool
}

// ScriptSystem runs each actor's life script once per tick.
type ScriptSystem struct {
	env        *Env
	controller *Controller
	clock      *Clock
	paths      map[int]string
	runtimes   map[int]*scriptRuntime
	load       func(string) ([]byte, error)
	modTime    func(string) (time.Time, bool)
}

func NewScriptSystem(env *Env, controller *Controller, clock *Clock) *ScriptSystem {
	return &ScriptSystem{
		env:        env,
		controller: controller,
		clock:      clock,
		paths:      make(map[int]string),
		runtimes:   make(map[int]*scriptRuntime),
		load:       prefabs.LoadScript,
		modTime:    prefabs.ScriptModTime,
	}
}

// Assign attaches a script to an actor. An empty path detaches it.
func (s *ScriptSystem) Assign(index int, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		delete(s.paths, index)
		delete(s.runtimes, index)
		return
	}
	s.paths[index] = path
}

func (s *ScriptSystem) Script(index int) (string, bool) {
	path, ok := s.paths[index]
	return path, ok
}

// Invalidate drops compiled scripts so the next tick recompiles them.
func (s *ScriptSystem) Invalidate() {
	clear(s.runtimes)
}

// Update implements System. Script failures are logged and never stop the
// tick; data errors raised through the actor API are returned.
func (s *ScriptSystem) Update(index int) error {
	path, ok := s.paths[index]
	if !ok {
		return nil
	}
	a := s.env.Actors.Get(index)
	if a.Dormant() || a.Dead() {
		return nil
	}

	rt, err := s.runtime(index, path)
	if err != nil {
		logger.ForActor(index).WithField("script", path).WithError(err).Warn("script failed to compile")
		return nil
	}
	if rt.broken {
		return nil
	}

	var apiErr error
	api := s.actorAPI(index, a, &apiErr)
	if err := rt.compiled.Set("__actor", api); err != nil {
		return fmt.Errorf("system: script %s: %w", path, err)
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return fmt.Errorf("system: script %s: %w", path, err)
	}
	if err := rt.compiled.Run(); err != nil {
		if apiErr != nil {
			return apiErr
		}
		logger.ForActor(index).WithFields(logrus.Fields{
			"script": path,
			"anim":   a.Anim.String(),
		}).WithError(err).Warn("script error")
	}
	return nil
}

func (s *ScriptSystem) runtime(index int, path string) (*scriptRuntime, error) {
	mod, _ := s.modTime(path)
	if rt, ok := s.runtimes[index]; ok && rt.path == path && rt.modTime.Equal(mod) {
		return rt, nil
	}

	rt := &scriptRuntime{
		path:    path,
		modTime: mod,
		state:   &tengo.Map{Value: map[string]tengo.Object{}},
	}
	if prev, ok := s.runtimes[index]; ok && prev.path == path {
		rt.state = prev.state
	}
	s.runtimes[index] = rt

	src, err := s.load(path)
	if err != nil {
		rt.broken = true
		return nil, err
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + lifeDispatchScript))
	_ = script.Add("__actor", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		rt.broken = true
		return nil, err
	}
	rt.compiled = compiled
	if mod.IsZero() {
		logger.ForActor(index).WithField("script", path).Debug("script compiled")
	} else {
		logger.ForActor(index).WithFields(logrus.Fields{"script": path, "mod_time": mod}).Debug("script compiled")
	}
	return rt, nil
}

func (s *ScriptSystem) actorAPI(index int, a *actor.Actor, apiErr *error) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["init_anim"] = &tengo.UserFunction{Name: "init_anim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		newAnim, err := actor.ParseAnimationID(objectAsString(args[0]))
		if err != nil {
			return tengo.FalseValue, nil
		}
		typ := actor.AnimLoop
		if len(args) > 1 {
			if typ, err = actor.ParseAnimType(objectAsString(args[1])); err != nil {
				return tengo.FalseValue, nil
			}
		}
		extra := actor.AnimInvalid
		if len(args) > 2 {
			if extra, err = actor.ParseAnimationID(objectAsString(args[2])); err != nil {
				return tengo.FalseValue, nil
			}
		}
		res, err := s.controller.SwitchAnimation(index, newAnim, typ, extra)
		if err != nil {
			*apiErr = err
			return nil, err
		}
		return &tengo.String{Value: res.String()}, nil
	}}

	values["anim"] = &tengo.UserFunction{Name: "anim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: a.Anim.String()}, nil
	}}

	values["anim_ended"] = &tengo.UserFunction{Name: "anim_ended", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.Dynamic.AnimEnded), nil
	}}

	values["falling"] = &tengo.UserFunction{Name: "falling", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.Dynamic.Falling), nil
	}}

	values["life"] = &tengo.UserFunction{Name: "life", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.Life)}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Int{Value: int64(a.Pos.X)},
			&tengo.Int{Value: int64(a.Pos.Y)},
			&tengo.Int{Value: int64(a.Pos.Z)},
		}}, nil
	}}

	values["angle"] = &tengo.UserFunction{Name: "angle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.Angle)}, nil
	}}

	values["set_angle"] = &tengo.UserFunction{Name: "set_angle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := tengo.ToInt64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		a.Angle = common.ClampAngle(int32(v % int64(common.Angle360)))
		return tengo.TrueValue, nil
	}}

	values["set_speed"] = &tengo.UserFunction{Name: "set_speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := tengo.ToInt64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		a.Speed = int32(v)
		return tengo.TrueValue, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.clock.Now())}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
