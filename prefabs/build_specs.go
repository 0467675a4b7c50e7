package prefabs

import "gopkg.in/yaml.v3"

// SceneSpec places actors on a brick map.
type SceneSpec struct {
	Name string `yaml:"name"`
	Hero int    `yaml:"hero"`
	// Entities lists entity spec files; the position in the list is the entity id.
	Entities []string `yaml:"entities"`
	// Animations names an animation manifest, Pack a packed resource file.
	// Pack wins when both are set.
	Animations string          `yaml:"animations"`
	Pack       string          `yaml:"pack"`
	Actors     []ActorSpec     `yaml:"actors"`
	Bricks     []BrickFillSpec `yaml:"bricks"`
}

type ActorSpec struct {
	Name        string   `yaml:"name"`
	Entity      int      `yaml:"entity"`
	Pos         Vec3Spec `yaml:"pos"`
	Angle       int32    `yaml:"angle"`
	Speed       int32    `yaml:"speed"`
	SpriteAngle int32    `yaml:"sprite_angle"`
	Door        int32    `yaml:"door"`
	Life        int32    `yaml:"life"`
	Anim        string   `yaml:"anim"`
	Flags       []string `yaml:"flags"`
	Box         BoxSpec  `yaml:"box"`
	Script      string   `yaml:"script"`
}

type BoxSpec struct {
	Min Vec3Spec `yaml:"min"`
	Max Vec3Spec `yaml:"max"`
}

// BrickFillSpec fills the inclusive cell box From..To with one shape.
type BrickFillSpec struct {
	From  Vec3Spec `yaml:"from"`
	To    Vec3Spec `yaml:"to"`
	Shape string   `yaml:"shape"`
	Sound *int32   `yaml:"sound"`
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadAnimationManifest(filename string) (*AnimationManifest, error) {
	spec, err := LoadSpec[AnimationManifest](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// DecodeComponentSpec re-decodes a loosely typed YAML value into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
