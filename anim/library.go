package anim

import "fmt"

// Loader supplies raw animation buffers by index.
type Loader interface {
	Animation(index int) ([]byte, error)
}

// Library decodes animation buffers on first use and keeps them.
type Library struct {
	loader Loader
	cache  map[int]*Animation
}

func NewLibrary(loader Loader) *Library {
	return &Library{loader: loader, cache: make(map[int]*Animation)}
}

func (l *Library) Get(index int) (*Animation, error) {
	if a, ok := l.cache[index]; ok {
		return a, nil
	}
	if l.loader == nil {
		return nil, fmt.Errorf("anim: no loader for animation %d", index)
	}
	buf, err := l.loader.Animation(index)
	if err != nil {
		return nil, fmt.Errorf("anim: load %d: %w", index, err)
	}
	a, err := Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("anim: decode %d: %w", index, err)
	}
	l.cache[index] = a
	return a, nil
}

// Bones resolves a keyframe reference to its bone records.
func (l *Library) Bones(animIndex, keyframe int) ([]BoneFrame, bool) {
	a, err := l.Get(animIndex)
	if err != nil {
		return nil, false
	}
	kf, ok := a.Keyframe(keyframe)
	if !ok {
		return nil, false
	}
	return kf.Bones, true
}

// Invalidate drops every decoded animation.
func (l *Library) Invalidate() {
	clear(l.cache)
}
