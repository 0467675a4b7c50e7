package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EngineSpec holds the tunables shared by every scene.
type EngineSpec struct {
	TickStep       int32   `yaml:"tick_step"`
	FallStep       int32   `yaml:"fall_step"`
	WallCollision  bool    `yaml:"wall_collision"`
	PoseArenaSlots int     `yaml:"pose_arena_slots"`
	MaxActors      int     `yaml:"max_actors"`
	HeroBehaviour  string  `yaml:"hero_behaviour"`
	MagicLevel     int     `yaml:"magic_level"`
	Log            LogSpec `yaml:"log"`
}

type LogSpec struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DefaultTickStep int32 = 1
	DefaultFallStep int32 = -64
)

func LoadEngineSpec() (*EngineSpec, error) {
	data, err := Load("engine.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load engine.yaml: %w", err)
	}
	spec := EngineSpec{
		TickStep:      DefaultTickStep,
		FallStep:      DefaultFallStep,
		WallCollision: true,
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal engine.yaml: %w", err)
	}
	return &spec, nil
}

// EntitySpec describes a body and the animations it can play.
type EntitySpec struct {
	Name       string              `yaml:"name"`
	Bones      int                 `yaml:"bones"`
	Animated   *bool               `yaml:"animated"`
	Script     string              `yaml:"script"`
	Animations map[string]AnimSpec `yaml:"animations"`
}

// IsAnimated defaults to true when the spec does not say otherwise.
func (e *EntitySpec) IsAnimated() bool {
	return e.Animated == nil || *e.Animated
}

type AnimSpec struct {
	Index   int          `yaml:"index"`
	Actions []ActionSpec `yaml:"actions"`
}

// ActionSpec is a frame-triggered action. Params are decoded per action type.
type ActionSpec struct {
	Type   string         `yaml:"type"`
	Frame  int            `yaml:"frame"`
	Params map[string]any `yaml:"params"`
}

func LoadEntitySpec(filename string) (*EntitySpec, error) {
	spec, err := LoadSpec[EntitySpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// AnimationManifest lists animations to pack into a resource file.
type AnimationManifest struct {
	Animations []AnimationManifestEntry `yaml:"animations"`
}

type AnimationManifestEntry struct {
	Index     int            `yaml:"index"`
	Name      string         `yaml:"name"`
	File      string         `yaml:"file"`
	LoopFrame int            `yaml:"loop_frame"`
	Keyframes []KeyframeSpec `yaml:"keyframes"`
}

type KeyframeSpec struct {
	Length int32      `yaml:"length"`
	Step   Vec3Spec   `yaml:"step"`
	Bones  []BoneSpec `yaml:"bones"`
}

type BoneSpec struct {
	Mode int16 `yaml:"mode"`
	X    int16 `yaml:"x"`
	Y    int16 `yaml:"y"`
	Z    int16 `yaml:"z"`
}

type Vec3Spec struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
	Z int32 `yaml:"z"`
}
