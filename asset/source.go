package asset

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/prefabs"
)

var ErrNotFound = errors.New("asset: animation not found")

// Source yields raw animation buffers by index.
type Source interface {
	Animation(index int) ([]byte, error)
}

var _ anim.Loader = (Source)(nil)

// MemorySource serves buffers held in memory.
type MemorySource struct {
	buffers map[int][]byte
}

func NewMemorySource(buffers map[int][]byte) *MemorySource {
	m := &MemorySource{buffers: make(map[int][]byte, len(buffers))}
	maps.Copy(m.buffers, buffers)
	return m
}

func (m *MemorySource) Animation(index int) ([]byte, error) {
	buf, ok := m.buffers[index]
	if !ok {
		return nil, fmt.Errorf("asset: animation %d: %w", index, ErrNotFound)
	}
	return buf, nil
}

func (m *MemorySource) Put(index int, buf []byte) {
	m.buffers[index] = buf
}

// Indices returns the stored animation indices in ascending order.
func (m *MemorySource) Indices() []int {
	return slices.Sorted(maps.Keys(m.buffers))
}

// EncodeManifest builds the binary buffer of every manifest entry, keyed by
// animation index. Entries naming a File read it through load instead of
// encoding keyframes.
func EncodeManifest(m *prefabs.AnimationManifest, load func(string) ([]byte, error)) (map[int][]byte, error) {
	out := make(map[int][]byte, len(m.Animations))
	for _, entry := range m.Animations {
		if _, dup := out[entry.Index]; dup {
			return nil, fmt.Errorf("asset: animation %d (%s) listed twice", entry.Index, entry.Name)
		}
		var (
			buf []byte
			err error
		)
		if entry.File != "" {
			buf, err = loadFile(entry, load)
		} else {
			buf, err = EncodeEntry(entry)
		}
		if err != nil {
			return nil, err
		}
		out[entry.Index] = buf
	}
	return out, nil
}

func loadFile(entry prefabs.AnimationManifestEntry, load func(string) ([]byte, error)) ([]byte, error) {
	if load == nil {
		return nil, fmt.Errorf("asset: animation %s: no loader for %s", entry.Name, entry.File)
	}
	buf, err := load(entry.File)
	if err != nil {
		return nil, fmt.Errorf("asset: animation %s: %w", entry.Name, err)
	}
	if _, err := anim.Parse(buf); err != nil {
		return nil, fmt.Errorf("asset: animation %s: %s: %w", entry.Name, entry.File, err)
	}
	return buf, nil
}

// EncodeEntry packs the keyframes of one manifest entry.
func EncodeEntry(entry prefabs.AnimationManifestEntry) ([]byte, error) {
	if len(entry.Keyframes) == 0 {
		return nil, fmt.Errorf("asset: animation %s has no keyframes", entry.Name)
	}
	if entry.LoopFrame < 0 || entry.LoopFrame >= len(entry.Keyframes) {
		return nil, fmt.Errorf("asset: animation %s: loop frame %d outside [0, %d)", entry.Name, entry.LoopFrame, len(entry.Keyframes))
	}
	bones := len(entry.Keyframes[0].Bones)
	kfs := make([]anim.Keyframe, len(entry.Keyframes))
	for i, spec := range entry.Keyframes {
		if len(spec.Bones) != bones {
			return nil, fmt.Errorf("asset: animation %s keyframe %d has %d bones, want %d", entry.Name, i, len(spec.Bones), bones)
		}
		if spec.Length < 0 || spec.Length > 0xFFFF {
			return nil, fmt.Errorf("asset: animation %s keyframe %d: length %d out of range", entry.Name, i, spec.Length)
		}
		kf := anim.Keyframe{
			Length: spec.Length,
			X:      int16(spec.Step.X),
			Y:      int16(spec.Step.Y),
			Z:      int16(spec.Step.Z),
			Bones:  make([]anim.BoneFrame, bones),
		}
		for b, bone := range spec.Bones {
			kf.Bones[b] = anim.BoneFrame{Mode: anim.BoneMode(bone.Mode), X: bone.X, Y: bone.Y, Z: bone.Z}
		}
		kfs[i] = kf
	}
	return anim.Encode(entry.LoopFrame, kfs), nil
}
