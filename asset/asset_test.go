package asset

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/prefabs"
)

func walkEntry() prefabs.AnimationManifestEntry {
	return prefabs.AnimationManifestEntry{
		Index:     3,
		Name:      "walk",
		LoopFrame: 1,
		Keyframes: []prefabs.KeyframeSpec{
			{Length: 10, Step: prefabs.Vec3Spec{Z: 40}, Bones: []prefabs.BoneSpec{{}, {X: 100}}},
			{Length: 12, Step: prefabs.Vec3Spec{Z: 60}, Bones: []prefabs.BoneSpec{{Mode: 1}, {Y: -5}}},
		},
	}
}

func TestEncodeEntry(t *testing.T) {
	buf, err := EncodeEntry(walkEntry())
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}
	a, err := anim.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.KeyframeCount() != 2 || a.BoneCount != 2 || a.LoopFrame != 1 {
		t.Fatalf("decoded %d keyframes %d bones loop %d", a.KeyframeCount(), a.BoneCount, a.LoopFrame)
	}
	kf, _ := a.Keyframe(1)
	if kf.Length != 12 || kf.Z != 60 || kf.Bones[0].Mode != anim.BoneTranslate || kf.Bones[1].Y != -5 {
		t.Fatalf("keyframe 1 = %+v", kf)
	}
}

func TestEncodeEntryErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *prefabs.AnimationManifestEntry)
		want   string
	}{
		{
			name:   "no_keyframes",
			mutate: func(e *prefabs.AnimationManifestEntry) { e.Keyframes = nil },
			want:   "no keyframes",
		},
		{
			name:   "loop_frame_out_of_range",
			mutate: func(e *prefabs.AnimationManifestEntry) { e.LoopFrame = 2 },
			want:   "loop frame",
		},
		{
			name:   "bone_count_mismatch",
			mutate: func(e *prefabs.AnimationManifestEntry) { e.Keyframes[1].Bones = e.Keyframes[1].Bones[:1] },
			want:   "bones",
		},
		{
			name:   "length_out_of_range",
			mutate: func(e *prefabs.AnimationManifestEntry) { e.Keyframes[0].Length = 70000 },
			want:   "length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := walkEntry()
			tt.mutate(&e)
			_, err := EncodeEntry(e)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestEncodeManifest(t *testing.T) {
	raw := anim.Encode(0, []anim.Keyframe{{Length: 4, Bones: []anim.BoneFrame{{}}}})
	files := map[string][]byte{"anims/idle.anm": raw, "anims/bad.anm": {1, 2}}
	load := func(name string) ([]byte, error) {
		buf, ok := files[name]
		if !ok {
			return nil, errors.New("missing")
		}
		return buf, nil
	}

	m := &prefabs.AnimationManifest{Animations: []prefabs.AnimationManifestEntry{
		walkEntry(),
		{Index: 0, Name: "idle", File: "anims/idle.anm"},
	}}
	out, err := EncodeManifest(m, load)
	if err != nil {
		t.Fatalf("EncodeManifest: %v", err)
	}
	if !reflect.DeepEqual(out[0], raw) || len(out) != 2 {
		t.Fatalf("manifest buffers = %v", out)
	}

	m.Animations = append(m.Animations, prefabs.AnimationManifestEntry{Index: 9, Name: "bad", File: "anims/bad.anm"})
	if _, err := EncodeManifest(m, load); !errors.Is(err, anim.ErrShortBuffer) {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}

	dup := &prefabs.AnimationManifest{Animations: []prefabs.AnimationManifestEntry{walkEntry(), walkEntry()}}
	if _, err := EncodeManifest(dup, load); err == nil {
		t.Fatal("duplicate index accepted")
	}
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource(map[int][]byte{2: {1}, 0: {2}})
	src.Put(1, []byte{3})

	if got := src.Indices(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("indices = %v", got)
	}
	if buf, err := src.Animation(1); err != nil || buf[0] != 3 {
		t.Fatalf("Animation(1) = (%v, %v)", buf, err)
	}
	if _, err := src.Animation(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBoltRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anims.res")
	walk, err := EncodeEntry(walkEntry())
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}
	buffers := map[int][]byte{3: walk, 300: {9, 9}}
	if err := PackAnimations(path, buffers); err != nil {
		t.Fatalf("PackAnimations: %v", err)
	}
	if err := PackAnimations(path, map[int][]byte{1: {7}}); err != nil {
		t.Fatalf("PackAnimations append: %v", err)
	}

	src, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer src.Close()

	indices, err := src.Indices()
	if err != nil || !reflect.DeepEqual(indices, []int{1, 3, 300}) {
		t.Fatalf("indices = %v err = %v", indices, err)
	}
	got, err := src.Animation(3)
	if err != nil || !reflect.DeepEqual(got, walk) {
		t.Fatalf("Animation(3) = (%v, %v)", got, err)
	}
	if _, err := src.Animation(4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	lib := anim.NewLibrary(src)
	a, err := lib.Get(3)
	if err != nil || a.LoopFrame != 1 {
		t.Fatalf("library Get = (%+v, %v)", a, err)
	}
}

func TestPackAnimationsRejectsNegativeIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anims.res")
	if err := PackAnimations(path, map[int][]byte{-1: {1}}); err == nil {
		t.Fatal("negative index accepted")
	}
}
