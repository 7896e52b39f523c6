package evaluator

import (
	"bytes"
	"encoding/binary"
	gomath "math"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

/** @brief One key of a draw's transform track. */
type Keyframe struct {
	Time      float32
	Transform math.Mat2D
}

/**
 * @brief Builds scene containers. Used to author fixtures and by tests.
 */
type ContainerWriter struct {
	sizes    layout.Sizes
	width    float32
	height   float32
	strings  bytes.Buffer
	bones    []layout.Bone
	machines []layout.StateMachine
	inputs   []layout.StateMachineInput
	anims    []animationRecord
	vertices []layout.Vertex
	indices  []uint32
	draws    []layout.Draw
	tracks   []trackRecord
	keys     []keyframeRecord
}

func NewContainerWriter(width, height float32) *ContainerWriter {
	return &ContainerWriter{
		sizes:  layout.Expected(),
		width:  width,
		height: height,
	}
}

// DeclareSize overrides the size the container declares for a record.
func (w *ContainerWriter) DeclareSize(r layout.Record, size uint32) *ContainerWriter {
	w.sizes[r] = size
	return w
}

func (w *ContainerWriter) str(s string) (uint32, uint32) {
	off := uint32(w.strings.Len())
	w.strings.WriteString(s)
	return off, uint32(len(s))
}

// AddBone appends a bone and returns its index. Use parent -1 for a root.
func (w *ContainerWriter) AddBone(name string, parent int, t math.BoneTransform) int {
	off, n := w.str(name)
	idx := len(w.bones)
	w.bones = append(w.bones, layout.Bone{
		Index:      int32(idx),
		Parent:     int32(parent),
		PosX:       t.PosX,
		PosY:       t.PosY,
		ScaleX:     t.ScaleX,
		ScaleY:     t.ScaleY,
		Rotation:   t.Rotation,
		Length:     t.Length,
		NameOffset: off,
		NameLength: n,
	})
	return idx
}

func (w *ContainerWriter) AddStateMachine(name string, inputs ...InputDesc) int {
	off, n := w.str(name)
	w.machines = append(w.machines, layout.StateMachine{
		NameOffset: off,
		NameLength: n,
		InputStart: uint32(len(w.inputs)),
		InputCount: uint32(len(inputs)),
	})
	for _, in := range inputs {
		ioff, inLen := w.str(in.Name)
		w.inputs = append(w.inputs, layout.StateMachineInput{
			NameOffset: ioff,
			NameLength: inLen,
			Type:       uint32(in.Type),
		})
	}
	return len(w.machines) - 1
}

func (w *ContainerWriter) AddAnimation(name string, duration float32, loop bool) int {
	off, n := w.str(name)
	var l uint32
	if loop {
		l = 1
	}
	w.anims = append(w.anims, animationRecord{NameOffset: off, NameLength: n, Duration: duration, Loop: l})
	return len(w.anims) - 1
}

/**
 * @brief Appends a draw with its own geometry.
 * @param d The draw state. Its vertex and index ranges are filled in.
 * @param vertices The draw's vertices.
 * @param indices Triangle indices relative to the draw's first vertex.
 * @returns The draw index.
 */
func (w *ContainerWriter) AddDraw(d layout.Draw, vertices []layout.Vertex, indices []uint32) int {
	d.VertexStart = uint32(len(w.vertices))
	d.VertexCount = uint32(len(vertices))
	d.IndexStart = uint32(len(w.indices))
	d.IndexCount = uint32(len(indices))
	w.vertices = append(w.vertices, vertices...)
	w.indices = append(w.indices, indices...)
	w.draws = append(w.draws, d)
	return len(w.draws) - 1
}

// AddTrack animates the world transform of a draw during an animation.
func (w *ContainerWriter) AddTrack(draw, anim int, keys ...Keyframe) {
	w.tracks = append(w.tracks, trackRecord{
		Draw:      uint32(draw),
		Animation: uint32(anim),
		KeyStart:  uint32(len(w.keys)),
		KeyCount:  uint32(len(keys)),
	})
	for _, k := range keys {
		w.keys = append(w.keys, keyframeRecord{Time: k.Time, Transform: k.Transform})
	}
}

// Bytes serialises the container.
func (w *ContainerWriter) Bytes() ([]byte, error) {
	le := binary.LittleEndian
	out := []byte(ContainerMagic)
	out = le.AppendUint32(out, layout.Version)
	out = le.AppendUint32(out, 0)
	out = le.AppendUint32(out, uint32(layout.RecordCount))
	for _, s := range w.sizes {
		out = le.AppendUint32(out, s)
	}
	out = le.AppendUint32(out, gomath.Float32bits(w.width))
	out = le.AppendUint32(out, gomath.Float32bits(w.height))
	out = le.AppendUint32(out, uint32(w.strings.Len()))
	out = append(out, w.strings.Bytes()...)

	var err error
	out, err = appendTable(out, w.bones, err)
	out, err = appendTable(out, w.machines, err)
	out, err = appendTable(out, w.inputs, err)
	out, err = appendTable(out, w.anims, err)
	out, err = appendTable(out, w.vertices, err)
	out, err = appendTable(out, w.indices, err)
	out, err = appendTable(out, w.draws, err)
	out, err = appendTable(out, w.tracks, err)
	out, err = appendTable(out, w.keys, err)
	if err != nil {
		return nil, errors.Wrap(err, "encoding container")
	}
	return out, nil
}

func appendTable[T any](out []byte, recs []T, err error) ([]byte, error) {
	if err != nil {
		return out, err
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(recs)))
	return layout.AppendRecords(out, recs)
}
