package scene

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
	"github.com/spaghettifunk/scenebridge/engine/renderer/metadata"
)

/** @brief The lifecycle state of a scene handle. */
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unloaded"
	}
}

/**
 * @brief One loaded animation instance. A Scene is single owner: none of its
 * methods may be called concurrently, and views returned by the getters are
 * only valid until the next Update or Destroy.
 */
type Scene struct {
	id     uuid.UUID
	name   string
	state  State
	ev     evaluator.Evaluator
	bounds math.AABB

	skeleton   *Skeleton
	machines   []StateMachine
	animations []string
	geometry   *geometry
}

/**
 * @brief Builds a scene on top of an opened evaluator. The scene takes
 * ownership of ev: on failure ev is closed and no scene is returned.
 * @param ev The evaluator to drive.
 * @param name Used for diagnostics only.
 * @returns The loaded scene, with no render objects until the first Update.
 */
func Load(ev evaluator.Evaluator, name string) (*Scene, error) {
	if err := layout.Verify(ev.Sizes()); err != nil {
		ev.Close()
		return nil, err
	}
	skeleton, err := NewSkeleton(ev.Bones())
	if err != nil {
		ev.Close()
		return nil, err
	}
	s := &Scene{
		name:       name,
		state:      StateLoaded,
		ev:         ev,
		bounds:     ev.Bounds(),
		skeleton:   skeleton,
		machines:   newStateMachines(ev.StateMachines()),
		animations: append([]string(nil), ev.Animations()...),
		geometry:   newGeometry(),
	}
	s.id = core.IdentifierAcquireNewID(s)
	core.LogDebug("scene %s loaded as %s: %d bones, %d state machines", name, s.id, skeleton.Len(), len(s.machines))
	return s, nil
}

func (s *Scene) mustBeLoaded(op string) {
	if s.state != StateLoaded {
		panic(fmt.Sprintf("scene %q: %s on a %s scene", s.name, op, s.state))
	}
}

/**
 * @brief Advances the scene by dt seconds and replaces the geometry buffers
 * and render objects with a new frame. On error the previous frame stays
 * current and the error wraps core.ErrUpdateFailed.
 * Panics when dt is negative or the scene has been destroyed.
 */
func (s *Scene) Update(dt float32) error {
	s.mustBeLoaded("update")
	if dt < 0 {
		panic(fmt.Sprintf("scene %q: negative dt %v", s.name, dt))
	}
	if err := s.ev.Advance(dt); err != nil {
		return errors.Wrapf(core.ErrUpdateFailed, "scene %s: advance: %v", s.name, err)
	}
	frame, err := s.ev.Draw()
	if err != nil {
		return errors.Wrapf(core.ErrUpdateFailed, "scene %s: draw: %v", s.name, err)
	}
	err = s.geometry.build(func(next *snapshot) error {
		return transcribe(frame, next)
	})
	if err != nil {
		return errors.Wrapf(core.ErrUpdateFailed, "scene %s: %v", s.name, err)
	}
	return nil
}

/**
 * @brief Releases the evaluator and every buffer. The scene must not be used
 * afterwards; doing so panics.
 */
func (s *Scene) Destroy() error {
	s.mustBeLoaded("destroy")
	s.state = StateDestroyed
	s.geometry.release()
	err := s.ev.Close()
	s.ev = nil
	if rerr := core.IdentifierReleaseID(s.id); rerr != nil {
		core.LogWarn("%v", rerr)
	}
	core.LogDebug("scene %s (%s) destroyed", s.name, s.id)
	return err
}

func (s *Scene) ID() uuid.UUID     { return s.id }
func (s *Scene) Name() string      { return s.name }
func (s *Scene) State() State      { return s.state }
func (s *Scene) Bounds() math.AABB { return s.bounds }

func (s *Scene) Skeleton() *Skeleton {
	s.mustBeLoaded("skeleton")
	return s.skeleton
}

// Bones returns a copy of the bones in index order.
func (s *Scene) Bones() []Bone {
	s.mustBeLoaded("bones")
	return s.skeleton.Bones()
}

func (s *Scene) Bone(i int) (Bone, error) {
	s.mustBeLoaded("bone")
	return s.skeleton.Bone(i)
}

func (s *Scene) Roots() []int {
	s.mustBeLoaded("roots")
	return s.skeleton.Roots()
}

func (s *Scene) Children(i int) ([]int, error) {
	s.mustBeLoaded("children")
	return s.skeleton.Children(i)
}

// StateMachines returns the state machines in discovery order.
func (s *Scene) StateMachines() []StateMachine {
	s.mustBeLoaded("state machines")
	return cloneStateMachines(s.machines)
}

func (s *Scene) Animations() []string {
	s.mustBeLoaded("animations")
	return slices.Clone(s.animations)
}

/**
 * @brief The current frame's vertex buffer: VertexStride floats (x, y, u, v)
 * per vertex. Invalid after the next Update.
 */
func (s *Scene) Vertices() []float32 {
	s.mustBeLoaded("vertices")
	return s.geometry.current.vertices
}

/**
 * @brief The current frame's index buffer, three indices per triangle.
 * Invalid after the next Update.
 */
func (s *Scene) Indices() []uint32 {
	s.mustBeLoaded("indices")
	return s.geometry.current.indices
}

// RenderObjects returns the current frame's draws in draw order. Invalid after the next Update.
func (s *Scene) RenderObjects() []metadata.RenderObject {
	s.mustBeLoaded("render objects")
	return s.geometry.current.objects
}

// Frame is the number of frames built so far; 0 before the first Update.
func (s *Scene) Frame() uint64 {
	s.mustBeLoaded("frame")
	return s.geometry.current.number
}
