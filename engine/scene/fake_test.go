package scene

import (
	"errors"

	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

// fakeEvaluator replays a fixed list of frames; the last one repeats.
type fakeEvaluator struct {
	sizes      layout.Sizes
	bones      []evaluator.BoneDesc
	machines   []evaluator.StateMachineDesc
	animations []string
	frames     []*evaluator.Frame
	drawn      int
	advanced   float32
	advanceErr error
	drawErr    error
	closed     int
}

func newFake(bones ...evaluator.BoneDesc) *fakeEvaluator {
	return &fakeEvaluator{sizes: layout.Expected(), bones: bones}
}

func (f *fakeEvaluator) Sizes() layout.Sizes                         { return f.sizes }
func (f *fakeEvaluator) Bounds() math.AABB                           { return math.AABB{Max: math.NewVec2(4, 2)}.Centered() }
func (f *fakeEvaluator) Bones() []evaluator.BoneDesc                 { return f.bones }
func (f *fakeEvaluator) StateMachines() []evaluator.StateMachineDesc { return f.machines }
func (f *fakeEvaluator) Animations() []string                        { return f.animations }

func (f *fakeEvaluator) Advance(dt float32) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	f.advanced += dt
	return nil
}

func (f *fakeEvaluator) Draw() (*evaluator.Frame, error) {
	if f.drawErr != nil {
		return nil, f.drawErr
	}
	if len(f.frames) == 0 {
		return &evaluator.Frame{}, nil
	}
	i := f.drawn
	if i >= len(f.frames) {
		i = len(f.frames) - 1
	}
	f.drawn++
	return f.frames[i], nil
}

func (f *fakeEvaluator) Close() error {
	f.closed++
	if f.closed > 1 {
		return errors.New("closed twice")
	}
	return nil
}

func quadVertices(offset float32) []layout.Vertex {
	return []layout.Vertex{
		{X: offset, Y: 0},
		{X: offset + 1, Y: 0, U: 1},
		{X: offset + 1, Y: 1, U: 1, V: 1},
		{X: offset, Y: 1, V: 1},
	}
}

// twoQuads is a frame with two draws of one quad each, sharing local indices.
func twoQuads(first, second layout.Draw) *evaluator.Frame {
	first.VertexStart, first.VertexCount, first.IndexStart, first.IndexCount = 0, 4, 0, 6
	second.VertexStart, second.VertexCount, second.IndexStart, second.IndexCount = 4, 4, 6, 6
	return &evaluator.Frame{
		Vertices: append(quadVertices(0), quadVertices(10)...),
		Indices:  []uint32{0, 1, 2, 0, 2, 3, 0, 1, 2, 0, 2, 3},
		Draws:    []layout.Draw{first, second},
	}
}

func bone(name string, parent int) evaluator.BoneDesc {
	return evaluator.BoneDesc{Name: name, Parent: parent, Transform: math.BoneTransform{ScaleX: 1, ScaleY: 1}}
}
