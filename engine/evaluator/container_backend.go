package evaluator

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

const ContainerBackendName = "container"

// ContainerBackend evaluates scene containers in process.
type ContainerBackend struct{}

func NewContainerBackend() *ContainerBackend {
	return &ContainerBackend{}
}

func (b *ContainerBackend) Name() string { return ContainerBackendName }

func (b *ContainerBackend) Open(name string, data []byte) (Evaluator, error) {
	c, err := parseContainer(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	core.LogDebug("container %s: %d bones, %d state machines, %d animations, %d draws",
		name, len(c.bones), len(c.machines), len(c.animations), len(c.frame.Draws))
	return &ContainerEvaluator{c: c}, nil
}

func (b *ContainerBackend) Close() error { return nil }

/**
 * @brief Plays the first animation of a container. Draws with a keyframe
 * track for that animation get their world transform from the track, all
 * other draws keep the transform stored in the container.
 */
type ContainerEvaluator struct {
	c      *container
	time   float32
	closed bool
}

func (e *ContainerEvaluator) Sizes() layout.Sizes               { return e.c.sizes }
func (e *ContainerEvaluator) Bounds() math.AABB                 { return e.c.bounds }
func (e *ContainerEvaluator) Bones() []BoneDesc                 { return e.c.bones }
func (e *ContainerEvaluator) StateMachines() []StateMachineDesc { return e.c.machines }

func (e *ContainerEvaluator) Animations() []string {
	names := make([]string, len(e.c.animations))
	for i, a := range e.c.animations {
		names[i] = a.name
	}
	return names
}

// Time is the playhead of the active animation, in seconds.
func (e *ContainerEvaluator) Time() float32 { return e.time }

func (e *ContainerEvaluator) Advance(dt float32) error {
	if e.closed {
		return errors.New("advance on a closed evaluator")
	}
	if len(e.c.animations) == 0 {
		return nil
	}
	a := e.c.animations[0]
	e.time += dt
	if a.loop {
		e.time = math.Wrap(e.time, a.duration)
	} else {
		e.time = math.Clamp(e.time, 0, a.duration)
	}
	return nil
}

func (e *ContainerEvaluator) Draw() (*Frame, error) {
	if e.closed {
		return nil, errors.New("draw on a closed evaluator")
	}
	f := &Frame{
		Vertices: e.c.frame.Vertices,
		Indices:  e.c.frame.Indices,
		Draws:    make([]layout.Draw, len(e.c.frame.Draws)),
	}
	copy(f.Draws, e.c.frame.Draws)
	for i := range e.c.tracks {
		t := &e.c.tracks[i]
		if t.animation != 0 {
			continue
		}
		f.Draws[t.draw].World = t.sample(e.time).ToMat4()
	}
	return f, nil
}

func (e *ContainerEvaluator) Close() error {
	e.closed = true
	return nil
}
