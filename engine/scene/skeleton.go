package scene

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

/** @brief The sentinel parent index of a root bone. */
const NoParent = -1

type Bone struct {
	Name string
	/** @brief Dense, 0-based index assigned at load. */
	Index int
	/** @brief Index of the parent bone, or NoParent. */
	Parent    int
	Transform math.BoneTransform
}

/**
 * @brief A flat arena of bones with integer parent references. Children
 * and world transforms are derived once at build time; the skeleton is
 * immutable afterwards.
 */
type Skeleton struct {
	bones    []Bone
	roots    []int
	children [][]int
	world    []math.Mat2D
}

/**
 * @brief Builds a skeleton from bone descriptors in discovery order.
 * @returns The skeleton, or an error wrapping core.ErrMalformedAsset when a
 * parent index is out of range or the parent graph has a cycle.
 */
func NewSkeleton(descs []evaluator.BoneDesc) (*Skeleton, error) {
	n := len(descs)
	s := &Skeleton{
		bones:    make([]Bone, n),
		children: make([][]int, n),
		world:    make([]math.Mat2D, n),
	}
	for i, d := range descs {
		if d.Parent != NoParent && (d.Parent < 0 || d.Parent >= n) {
			return nil, errors.Wrapf(core.ErrMalformedAsset, "bone %d (%s): parent index %d out of range [-1, %d)", i, d.Name, d.Parent, n)
		}
		s.bones[i] = Bone{Name: d.Name, Index: i, Parent: d.Parent, Transform: d.Transform}
	}
	if err := s.checkAcyclic(); err != nil {
		return nil, err
	}

	for i, b := range s.bones {
		if b.Parent == NoParent {
			s.roots = append(s.roots, i)
		} else {
			s.children[b.Parent] = append(s.children[b.Parent], i)
		}
	}
	s.validateNames()

	// Walk down from the roots so every parent is resolved before its children.
	queue := append([]int(nil), s.roots...)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		local := s.bones[i].Transform.Local()
		if p := s.bones[i].Parent; p != NoParent {
			s.world[i] = s.world[p].Mul(local)
		} else {
			s.world[i] = local
		}
		queue = append(queue, s.children[i]...)
	}
	return s, nil
}

// checkAcyclic walks every parent chain once, rejecting any chain that
// revisits a bone already on the current path.
func (s *Skeleton) checkAcyclic() error {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]uint8, len(s.bones))
	path := make([]int, 0, len(s.bones))
	for start := range s.bones {
		path = path[:0]
		i := start
		for i != NoParent && state[i] != done {
			if state[i] == onPath {
				return errors.Wrapf(core.ErrMalformedAsset, "bone %d (%s) is its own ancestor", i, s.bones[i].Name)
			}
			state[i] = onPath
			path = append(path, i)
			i = s.bones[i].Parent
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func (s *Skeleton) validateNames() {
	seen := make(map[string]int, len(s.bones))
	for i, b := range s.bones {
		if b.Name == "" {
			core.LogWarn("bone %d has no name", i)
			continue
		}
		if first, dup := seen[b.Name]; dup {
			core.LogWarn("bone %d has the same name %q as bone %d", i, b.Name, first)
			continue
		}
		seen[b.Name] = i
	}
}

func (s *Skeleton) Len() int { return len(s.bones) }

// Bones returns a copy of the bones in index order.
func (s *Skeleton) Bones() []Bone { return slices.Clone(s.bones) }

func (s *Skeleton) Bone(i int) (Bone, error) {
	if i < 0 || i >= len(s.bones) {
		return Bone{}, &core.QueryError{What: "bone", Index: i, Count: len(s.bones)}
	}
	return s.bones[i], nil
}

// Roots returns the indices of the bones without a parent.
func (s *Skeleton) Roots() []int { return slices.Clone(s.roots) }

func (s *Skeleton) Children(i int) ([]int, error) {
	if i < 0 || i >= len(s.bones) {
		return nil, &core.QueryError{What: "bone", Index: i, Count: len(s.bones)}
	}
	return slices.Clone(s.children[i]), nil
}

/**
 * @brief Returns the chain of bone indices from i up to its root, inclusive.
 */
func (s *Skeleton) Path(i int) ([]int, error) {
	if i < 0 || i >= len(s.bones) {
		return nil, &core.QueryError{What: "bone", Index: i, Count: len(s.bones)}
	}
	var path []int
	for ; i != NoParent; i = s.bones[i].Parent {
		path = append(path, i)
	}
	return path, nil
}

// World returns the bone's rest transform in artboard space.
func (s *Skeleton) World(i int) (math.Mat2D, error) {
	if i < 0 || i >= len(s.bones) {
		return math.Mat2D{}, &core.QueryError{What: "bone", Index: i, Count: len(s.bones)}
	}
	return s.world[i], nil
}

// Find returns the index of the first bone with the given name.
func (s *Skeleton) Find(name string) (int, bool) {
	for i := range s.bones {
		if s.bones[i].Name == name {
			return i, true
		}
	}
	return NoParent, false
}
