package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/sirupsen/logrus"
)

// Body is the skeletal description an entity gives its actors.
type Body struct {
	Bones    int
	Animated bool
}

type record struct {
	spec  *prefabs.EntitySpec
	anims map[actor.AnimationID]*prefabs.AnimSpec
}

// Catalog holds the entity specs of a scene keyed by entity id. Action lists
// are compiled from the specs on first use and cached per (entity, animation).
type Catalog struct {
	entities map[int]*record
	cache    *ActionCache
}

func NewCatalog() *Catalog {
	return &Catalog{entities: make(map[int]*record), cache: NewActionCache()}
}

// Register adds or replaces an entity. Replacing drops its cached actions.
func (c *Catalog) Register(id int, spec *prefabs.EntitySpec) error {
	if spec == nil {
		return fmt.Errorf("entity: nil spec for entity %d", id)
	}
	rec := &record{spec: spec, anims: make(map[actor.AnimationID]*prefabs.AnimSpec, len(spec.Animations))}
	for name := range spec.Animations {
		animID, err := actor.ParseAnimationID(name)
		if err != nil {
			return fmt.Errorf("entity: %s: %w", spec.Name, err)
		}
		a := spec.Animations[name]
		rec.anims[animID] = &a
	}
	c.entities[id] = rec
	c.cache.InvalidateEntity(id)
	return nil
}

func (c *Catalog) Spec(id int) (*prefabs.EntitySpec, bool) {
	rec, ok := c.entities[id]
	if !ok {
		return nil, false
	}
	return rec.spec, true
}

func (c *Catalog) Body(id int) (Body, bool) {
	rec, ok := c.entities[id]
	if !ok {
		return Body{}, false
	}
	return Body{Bones: rec.spec.Bones, Animated: rec.spec.IsAnimated()}, true
}

// AnimIndex resolves a gameplay animation to an animation index, or -1.
func (c *Catalog) AnimIndex(id int, anim actor.AnimationID) int {
	rec, ok := c.entities[id]
	if !ok {
		return -1
	}
	a, ok := rec.anims[anim]
	if !ok {
		return -1
	}
	return a.Index
}

// Actions returns the compiled actions of an animation, nil when it has none.
func (c *Catalog) Actions(id int, anim actor.AnimationID) []Action {
	if actions, ok := c.cache.Get(id, anim); ok {
		return actions
	}
	rec, ok := c.entities[id]
	if !ok {
		return nil
	}
	a, ok := rec.anims[anim]
	if !ok {
		c.cache.Put(id, anim, nil)
		return nil
	}
	actions := make([]Action, 0, len(a.Actions))
	for _, raw := range a.Actions {
		act, err := Compile(raw)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"entity": rec.spec.Name,
				"anim":   anim.String(),
				"frame":  raw.Frame,
			}).WithError(err).Warn("skipping malformed action")
			continue
		}
		actions = append(actions, act)
	}
	c.cache.Put(id, anim, actions)
	return actions
}

// Invalidate drops every cached action list.
func (c *Catalog) Invalidate() {
	c.cache.Clear()
}

func (c *Catalog) Cache() *ActionCache { return c.cache }

// Compile turns one action spec into its typed form. Unknown types compile to
// a ReservedAction so newer data keeps loading.
func Compile(raw prefabs.ActionSpec) (Action, error) {
	at := At{Frame: raw.Frame}
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "hit", "hitting":
		a, err := prefabs.DecodeComponentSpec[HitAction](raw.Params)
		a.At = at
		return a, err
	case "hero_hit", "hero_hitting":
		return HeroHitAction{At: at}, nil
	case "sample", "sample_freq", "sound":
		a, err := prefabs.DecodeComponentSpec[SampleAction](raw.Params)
		a.At = at
		return a, err
	case "sample_repeat", "sound_repeat":
		a, err := prefabs.DecodeComponentSpec[SampleRepeatAction](raw.Params)
		a.At = at
		return a, err
	case "sample_stop", "stop_sound":
		a, err := prefabs.DecodeComponentSpec[SampleStopAction](raw.Params)
		a.At = at
		return a, err
	case "left_step":
		return StepAction{At: at}, nil
	case "right_step":
		return StepAction{At: at, Right: true}, nil
	case "throw", "throw_extra_bonus", "throw_alpha":
		a, err := prefabs.DecodeComponentSpec[ThrowAction](raw.Params)
		a.At = at
		a.Alpha = strings.HasSuffix(raw.Type, "alpha")
		return a, err
	case "throw_magic_ball":
		a, err := prefabs.DecodeComponentSpec[ThrowMagicBallAction](raw.Params)
		a.At = at
		return a, err
	case "throw_search":
		a, err := prefabs.DecodeComponentSpec[ThrowSearchAction](raw.Params)
		a.At = at
		return a, err
	case "throw_3d", "throw_3d_alpha":
		a, err := prefabs.DecodeComponentSpec[Throw3DAction](raw.Params)
		a.At = at
		a.Alpha = strings.HasSuffix(raw.Type, "alpha")
		return a, err
	case "throw_3d_search":
		a, err := prefabs.DecodeComponentSpec[Throw3DSearchAction](raw.Params)
		a.At = at
		return a, err
	case "throw_3d_magic_ball":
		a, err := prefabs.DecodeComponentSpec[Throw3DMagicBallAction](raw.Params)
		a.At = at
		return a, err
	}
	return ReservedAction{At: at, Type: raw.Type}, nil
}
