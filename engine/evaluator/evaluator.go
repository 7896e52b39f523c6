package evaluator

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

/** @brief The declared type of a state machine input. */
type InputType uint32

const (
	InputUnknown InputType = iota
	InputBool
	InputNumber
	InputTrigger
)

func (t InputType) String() string {
	switch t {
	case InputBool:
		return "bool"
	case InputNumber:
		return "number"
	case InputTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

/** @brief How a draw is filled. Passed through to the shader constants untouched. */
type FillType uint32

const (
	FillNone FillType = iota
	FillSolid
	FillLinear
	FillRadial
)

/** @brief Blend modes as numbered by the evaluator. */
type BlendMode uint32

const (
	BlendModeSrcOver    BlendMode = 3
	BlendModeScreen     BlendMode = 14
	BlendModeOverlay    BlendMode = 15
	BlendModeDarken     BlendMode = 16
	BlendModeLighten    BlendMode = 17
	BlendModeColorDodge BlendMode = 18
	BlendModeColorBurn  BlendMode = 19
	BlendModeHardLight  BlendMode = 20
	BlendModeSoftLight  BlendMode = 21
	BlendModeDifference BlendMode = 22
	BlendModeExclusion  BlendMode = 23
	BlendModeMultiply   BlendMode = 24
	BlendModeHue        BlendMode = 25
	BlendModeSaturation BlendMode = 26
	BlendModeColor      BlendMode = 27
	BlendModeLuminosity BlendMode = 28
)

/** @brief Whether a draw renders content or edits the clip stencil. */
type DrawMode uint32

const (
	DrawModeDefault DrawMode = iota
	DrawModeClipIncrement
	DrawModeClipDecrement
)

type BoneDesc struct {
	Name string
	/** @brief Index of the parent bone, -1 for roots. */
	Parent    int
	Transform math.BoneTransform
}

type InputDesc struct {
	Name string
	Type InputType
}

type StateMachineDesc struct {
	Name string
	/** @brief Inputs in discovery order. */
	Inputs []InputDesc
}

/**
 * @brief The tessellated output of one evaluation step.
 * Each draw references the range [VertexStart, VertexStart+VertexCount) of
 * Vertices and [IndexStart, IndexStart+IndexCount) of Indices. Indices are
 * relative to the draw's own first vertex.
 */
type Frame struct {
	Vertices []layout.Vertex
	Indices  []uint32
	Draws    []layout.Draw
}

/**
 * @brief Checks that every draw references valid ranges of the frame.
 * @returns An error describing the first invalid draw, or nil.
 */
func (f *Frame) Validate() error {
	for i := range f.Draws {
		d := &f.Draws[i]
		if uint64(d.VertexStart)+uint64(d.VertexCount) > uint64(len(f.Vertices)) {
			return errors.Errorf("draw %d: vertex range [%d, +%d) exceeds %d vertices", i, d.VertexStart, d.VertexCount, len(f.Vertices))
		}
		if uint64(d.IndexStart)+uint64(d.IndexCount) > uint64(len(f.Indices)) {
			return errors.Errorf("draw %d: index range [%d, +%d) exceeds %d indices", i, d.IndexStart, d.IndexCount, len(f.Indices))
		}
		if d.IndexCount%3 != 0 {
			return errors.Errorf("draw %d: %d indices is not a whole number of triangles", i, d.IndexCount)
		}
		if d.StopCount > layout.MaxStops*4 {
			return errors.Errorf("draw %d: %d gradient stops exceeds %d", i, d.StopCount, layout.MaxStops*4)
		}
		for _, ix := range f.Indices[d.IndexStart : d.IndexStart+d.IndexCount] {
			if ix >= d.VertexCount {
				return errors.Errorf("draw %d: index %d outside its %d vertices", i, ix, d.VertexCount)
			}
		}
	}
	return nil
}

/**
 * @brief A loaded animation instance. Implementations are not safe for
 * concurrent use; a Scene owns exactly one Evaluator.
 */
type Evaluator interface {
	/** @brief The record sizes the evaluator emits. */
	Sizes() layout.Sizes
	/** @brief The artboard bounds. */
	Bounds() math.AABB
	/** @brief Bones in discovery order. */
	Bones() []BoneDesc
	StateMachines() []StateMachineDesc
	Animations() []string
	/** @brief Advances the simulation by dt seconds. */
	Advance(dt float32) error
	/** @brief Returns the current tessellated frame. */
	Draw() (*Frame, error)
	Close() error
}

/**
 * @brief Opens evaluators from container bytes.
 */
type Backend interface {
	Name() string
	Open(name string, data []byte) (Evaluator, error)
	Close() error
}
