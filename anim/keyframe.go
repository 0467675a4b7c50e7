package anim

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize     = 8
	boneRecordSize = 8
)

var (
	ErrShortBuffer  = errors.New("anim: buffer too short")
	ErrBadLoopFrame = errors.New("anim: loop frame out of range")
)

// BoneMode selects how a bone record is blended.
type BoneMode int16

const (
	BoneRotate          BoneMode = 0
	BoneTranslate       BoneMode = 1
	BoneTranslateHidden BoneMode = 2
)

// BoneFrame is one bone record. For bone 0 a non-zero Mode marks rotation
// driven by the animation and Y carries the root yaw step.
type BoneFrame struct {
	Mode    BoneMode
	X, Y, Z int16
}

// Keyframe is a pose held for Length ticks before the next one.
type Keyframe struct {
	Length  int32
	X, Y, Z int16
	Bones   []BoneFrame
}

func le16(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off:]))
}

func KeyframeCount(buf []byte) int16 {
	if len(buf) < headerSize {
		return 0
	}
	return le16(buf, 0)
}

func BoneCount(buf []byte) int16 {
	if len(buf) < headerSize {
		return 0
	}
	return le16(buf, 2)
}

// StartKeyframeIndex returns the keyframe a looping animation restarts from.
func StartKeyframeIndex(buf []byte) int16 {
	if len(buf) < headerSize {
		return 0
	}
	return le16(buf, 4)
}

func keyframeBlockSize(bones int) int {
	return bones*boneRecordSize + 8
}

// BoneFrameDataAt returns the byte offset of keyframe idx inside buf.
func BoneFrameDataAt(buf []byte, idx int) (int, bool) {
	count := int(KeyframeCount(buf))
	if idx < 0 || idx >= count {
		return 0, false
	}
	bones := int(BoneCount(buf))
	if bones < 0 {
		return 0, false
	}
	size := keyframeBlockSize(bones)
	off := headerSize + idx*size
	if off+size > len(buf) {
		return 0, false
	}
	return off, true
}

// KeyframeAt decodes a single keyframe without parsing the whole buffer.
func KeyframeAt(buf []byte, idx int) (Keyframe, bool) {
	off, ok := BoneFrameDataAt(buf, idx)
	if !ok {
		return Keyframe{}, false
	}
	return decodeKeyframe(buf, off, int(BoneCount(buf))), true
}

func decodeKeyframe(buf []byte, off, bones int) Keyframe {
	kf := Keyframe{
		Length: int32(binary.LittleEndian.Uint16(buf[off:])),
		X:      le16(buf, off+2),
		Y:      le16(buf, off+4),
		Z:      le16(buf, off+6),
		Bones:  make([]BoneFrame, bones),
	}
	p := off + 8
	for i := range kf.Bones {
		kf.Bones[i] = BoneFrame{
			Mode: BoneMode(le16(buf, p)),
			X:    le16(buf, p+2),
			Y:    le16(buf, p+4),
			Z:    le16(buf, p+6),
		}
		p += boneRecordSize
	}
	return kf
}

// Parse decodes every keyframe in buf in order.
func Parse(buf []byte) ([]Keyframe, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("anim: header: %w", ErrShortBuffer)
	}
	count := int(KeyframeCount(buf))
	bones := int(BoneCount(buf))
	if count < 0 || bones < 0 {
		return nil, fmt.Errorf("anim: negative header counts (keyframes=%d bones=%d)", count, bones)
	}
	size := keyframeBlockSize(bones)
	if need := headerSize + count*size; len(buf) < need {
		return nil, fmt.Errorf("anim: %d keyframes of %d bones need %d bytes, have %d: %w", count, bones, need, len(buf), ErrShortBuffer)
	}
	out := make([]Keyframe, count)
	for i := range out {
		out[i] = decodeKeyframe(buf, headerSize+i*size, bones)
	}
	return out, nil
}

// Animation is a fully decoded animation buffer.
type Animation struct {
	BoneCount int
	LoopFrame int
	Keyframes []Keyframe
}

func Decode(buf []byte) (*Animation, error) {
	kfs, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	loop := int(StartKeyframeIndex(buf))
	if len(kfs) > 0 && (loop < 0 || loop >= len(kfs)) {
		return nil, fmt.Errorf("anim: loop frame %d of %d keyframes: %w", loop, len(kfs), ErrBadLoopFrame)
	}
	return &Animation{
		BoneCount: int(BoneCount(buf)),
		LoopFrame: loop,
		Keyframes: kfs,
	}, nil
}

func (a *Animation) KeyframeCount() int {
	if a == nil {
		return 0
	}
	return len(a.Keyframes)
}

func (a *Animation) Keyframe(idx int) (*Keyframe, bool) {
	if a == nil || idx < 0 || idx >= len(a.Keyframes) {
		return nil, false
	}
	return &a.Keyframes[idx], true
}

// Encode packs keyframes back into the binary layout read by Parse.
func Encode(loopFrame int, keyframes []Keyframe) []byte {
	bones := 0
	if len(keyframes) > 0 {
		bones = len(keyframes[0].Bones)
	}
	size := keyframeBlockSize(bones)
	buf := make([]byte, headerSize+len(keyframes)*size)
	binary.LittleEndian.PutUint16(buf[0:], uint16(len(keyframes)))
	binary.LittleEndian.PutUint16(buf[2:], uint16(bones))
	binary.LittleEndian.PutUint16(buf[4:], uint16(loopFrame))
	for i, kf := range keyframes {
		p := headerSize + i*size
		binary.LittleEndian.PutUint16(buf[p:], uint16(kf.Length))
		binary.LittleEndian.PutUint16(buf[p+2:], uint16(kf.X))
		binary.LittleEndian.PutUint16(buf[p+4:], uint16(kf.Y))
		binary.LittleEndian.PutUint16(buf[p+6:], uint16(kf.Z))
		p += 8
		for b := 0; b < bones; b++ {
			var bf BoneFrame
			if b < len(kf.Bones) {
				bf = kf.Bones[b]
			}
			binary.LittleEndian.PutUint16(buf[p:], uint16(bf.Mode))
			binary.LittleEndian.PutUint16(buf[p+2:], uint16(bf.X))
			binary.LittleEndian.PutUint16(buf[p+4:], uint16(bf.Y))
			binary.LittleEndian.PutUint16(buf[p+6:], uint16(bf.Z))
			p += boneRecordSize
		}
	}
	return buf
}
