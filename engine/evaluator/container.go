package evaluator

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

/** @brief The four bytes every scene container starts with. */
const ContainerMagic = "SCNB"

// Guards against absurd declared tables before anything is allocated.
const maxRecordKinds = 64

// animationRecord size: 16 bytes.
type animationRecord struct {
	NameOffset uint32
	NameLength uint32
	Duration   float32
	Loop       uint32
}

// trackRecord binds a run of keyframes to one draw of one animation. Size: 16 bytes.
type trackRecord struct {
	Draw      uint32
	Animation uint32
	KeyStart  uint32
	KeyCount  uint32
}

// keyframeRecord size: 32 bytes.
type keyframeRecord struct {
	Time      float32
	Transform [6]float32
	_         [4]byte
}

type animation struct {
	name     string
	duration float32
	loop     bool
}

type track struct {
	draw      int
	animation int
	keys      []keyframeRecord
}

// container is a fully parsed and validated scene container.
type container struct {
	sizes      layout.Sizes
	bounds     math.AABB
	bones      []BoneDesc
	machines   []StateMachineDesc
	animations []animation
	frame      Frame
	tracks     []track
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(core.ErrMalformedAsset, format, args...)
}

/**
 * @brief Parses a scene container. Every table is bounds checked.
 * @param data The container bytes.
 * @returns The parsed container, or an error wrapping core.ErrMalformedAsset
 * or core.ErrLayoutMismatch.
 */
func parseContainer(data []byte) (*container, error) {
	if len(data) < 16 || string(data[:4]) != ContainerMagic {
		return nil, malformed("missing %q header", ContainerMagic)
	}
	r := layout.NewReader(data[4:])
	if version := r.U32(); version != layout.Version {
		return nil, malformed("unsupported container version %d", version)
	}
	_ = r.U32() // flags, reserved

	kinds := r.U32()
	if kinds > maxRecordKinds {
		return nil, malformed("record size table of %d entries", kinds)
	}
	declared := r.Uint32s(kinds)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if kinds != uint32(layout.RecordCount) {
		return nil, errors.Wrapf(core.ErrLayoutMismatch, "container declares %d record kinds, expected %d", kinds, layout.RecordCount)
	}
	c := &container{}
	copy(c.sizes[:], declared)
	if err := layout.Verify(c.sizes); err != nil {
		return nil, err
	}

	width, height := r.F32(), r.F32()
	c.bounds = math.AABB{Max: math.NewVec2(width, height)}.Centered()

	strs := r.Bytes(int(r.U32()))
	bones := layout.ReadRecords[layout.Bone](r, r.U32())
	machines := layout.ReadRecords[layout.StateMachine](r, r.U32())
	inputs := layout.ReadRecords[layout.StateMachineInput](r, r.U32())
	anims := layout.ReadRecords[animationRecord](r, r.U32())
	c.frame.Vertices = layout.ReadRecords[layout.Vertex](r, r.U32())
	c.frame.Indices = r.Uint32s(r.U32())
	c.frame.Draws = layout.ReadRecords[layout.Draw](r, r.U32())
	tracks := layout.ReadRecords[trackRecord](r, r.U32())
	keys := layout.ReadRecords[keyframeRecord](r, r.U32())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, malformed("%d trailing bytes", r.Remaining())
	}

	str := func(what string, i int, off, n uint32) (string, error) {
		if uint64(off)+uint64(n) > uint64(len(strs)) {
			return "", malformed("%s %d: name [%d, +%d) outside the %d byte string table", what, i, off, n, len(strs))
		}
		return string(strs[off : off+n]), nil
	}

	c.bones = make([]BoneDesc, len(bones))
	for i, b := range bones {
		if int(b.Index) != i {
			return nil, malformed("bone %d carries index %d", i, b.Index)
		}
		name, err := str("bone", i, b.NameOffset, b.NameLength)
		if err != nil {
			return nil, err
		}
		c.bones[i] = BoneDesc{
			Name:   name,
			Parent: int(b.Parent),
			Transform: math.BoneTransform{
				PosX:     b.PosX,
				PosY:     b.PosY,
				ScaleX:   b.ScaleX,
				ScaleY:   b.ScaleY,
				Rotation: b.Rotation,
				Length:   b.Length,
			},
		}
	}

	c.machines = make([]StateMachineDesc, len(machines))
	for i, m := range machines {
		name, err := str("state machine", i, m.NameOffset, m.NameLength)
		if err != nil {
			return nil, err
		}
		if uint64(m.InputStart)+uint64(m.InputCount) > uint64(len(inputs)) {
			return nil, malformed("state machine %d: inputs [%d, +%d) outside %d inputs", i, m.InputStart, m.InputCount, len(inputs))
		}
		desc := StateMachineDesc{Name: name, Inputs: make([]InputDesc, 0, m.InputCount)}
		for j, in := range inputs[m.InputStart : m.InputStart+m.InputCount] {
			inName, err := str("input", int(m.InputStart)+j, in.NameOffset, in.NameLength)
			if err != nil {
				return nil, err
			}
			typ := InputType(in.Type)
			if typ > InputTrigger {
				typ = InputUnknown
			}
			desc.Inputs = append(desc.Inputs, InputDesc{Name: inName, Type: typ})
		}
		c.machines[i] = desc
	}

	c.animations = make([]animation, len(anims))
	for i, a := range anims {
		name, err := str("animation", i, a.NameOffset, a.NameLength)
		if err != nil {
			return nil, err
		}
		if !(a.Duration >= 0) {
			return nil, malformed("animation %d: duration %v", i, a.Duration)
		}
		c.animations[i] = animation{name: name, duration: a.Duration, loop: a.Loop != 0}
	}

	if err := c.frame.Validate(); err != nil {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "%v", err)
	}

	c.tracks = make([]track, len(tracks))
	for i, t := range tracks {
		if int(t.Draw) >= len(c.frame.Draws) || int(t.Animation) >= len(c.animations) {
			return nil, malformed("track %d: draw %d / animation %d out of range", i, t.Draw, t.Animation)
		}
		if t.KeyCount == 0 || uint64(t.KeyStart)+uint64(t.KeyCount) > uint64(len(keys)) {
			return nil, malformed("track %d: keys [%d, +%d) outside %d keys", i, t.KeyStart, t.KeyCount, len(keys))
		}
		k := keys[t.KeyStart : t.KeyStart+t.KeyCount]
		for j := 1; j < len(k); j++ {
			if k[j].Time < k[j-1].Time {
				return nil, malformed("track %d: keyframe %d goes back in time", i, j)
			}
		}
		c.tracks[i] = track{draw: int(t.Draw), animation: int(t.Animation), keys: k}
	}
	return c, nil
}

// sample evaluates the track at time t, holding the first and last key outside their range.
func (t *track) sample(at float32) math.Mat2D {
	keys := t.keys
	if at <= keys[0].Time {
		return keys[0].Transform
	}
	for i := 1; i < len(keys); i++ {
		if at <= keys[i].Time {
			a, b := keys[i-1], keys[i]
			span := b.Time - a.Time
			if span <= 0 {
				return b.Transform
			}
			f := math.Clamp((at-a.Time)/span, 0, 1)
			return math.LerpMat2D(a.Transform, b.Transform, f)
		}
	}
	return keys[len(keys)-1].Transform
}
