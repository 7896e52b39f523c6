package scene

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

func TestSkeletonRootsAndChildren(t *testing.T) {
	s, err := NewSkeleton([]evaluator.BoneDesc{
		bone("hip", -1),
		bone("thigh", 0),
		bone("shin", 1),
		bone("tail", 0),
		bone("prop", -1),
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	if roots := s.Roots(); len(roots) != 2 || roots[0] != 0 || roots[1] != 4 {
		t.Errorf("Roots = %v, want [0 4]", roots)
	}
	children, err := s.Children(0)
	if err != nil || len(children) != 2 || children[0] != 1 || children[1] != 3 {
		t.Errorf("Children(0) = %v, %v, want [1 3]", children, err)
	}
	if leaf, _ := s.Children(2); len(leaf) != 0 {
		t.Errorf("Children(2) = %v, want none", leaf)
	}
	if i, ok := s.Find("shin"); !ok || i != 2 {
		t.Errorf("Find(shin) = %d, %v", i, ok)
	}
}

func TestSkeletonPathsTerminateAtRoot(t *testing.T) {
	// A deep chain with a branch, declared children-first.
	descs := []evaluator.BoneDesc{
		bone("c", 3),
		bone("b", 2),
		bone("a", 3),
		bone("root", -1),
		bone("d", 0),
	}
	s, err := NewSkeleton(descs)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	n := s.Len()
	for i := 0; i < n; i++ {
		path, err := s.Path(i)
		if err != nil {
			t.Fatalf("Path(%d): %v", i, err)
		}
		if len(path) == 0 || len(path) > n {
			t.Fatalf("Path(%d) = %v has %d steps for %d bones", i, path, len(path), n)
		}
		if path[0] != i {
			t.Errorf("Path(%d) starts at %d", i, path[0])
		}
		last, _ := s.Bone(path[len(path)-1])
		if last.Parent != NoParent {
			t.Errorf("Path(%d) = %v does not end at a root", i, path)
		}
	}
}

func TestSkeletonRejectsMalformedParents(t *testing.T) {
	tests := []struct {
		name  string
		bones []evaluator.BoneDesc
	}{
		{"self parent", []evaluator.BoneDesc{bone("a", 0)}},
		{"two cycle", []evaluator.BoneDesc{bone("a", 1), bone("b", 0)}},
		{"cycle off a root", []evaluator.BoneDesc{bone("root", -1), bone("a", 3), bone("b", 1), bone("c", 2)}},
		{"parent past end", []evaluator.BoneDesc{bone("a", -1), bone("b", 2)}},
		{"negative parent", []evaluator.BoneDesc{bone("a", -2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkeleton(tt.bones)
			if !errors.Is(err, core.ErrMalformedAsset) {
				t.Errorf("NewSkeleton = %v, want ErrMalformedAsset", err)
			}
		})
	}
}

func TestSkeletonOutOfRange(t *testing.T) {
	s, err := NewSkeleton([]evaluator.BoneDesc{bone("a", -1)})
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, 1} {
		if _, err := s.Bone(i); !errors.Is(err, core.ErrOutOfRange) {
			t.Errorf("Bone(%d) = %v, want ErrOutOfRange", i, err)
		}
		if _, err := s.Children(i); !errors.Is(err, core.ErrOutOfRange) {
			t.Errorf("Children(%d) = %v, want ErrOutOfRange", i, err)
		}
		if _, err := s.Path(i); !errors.Is(err, core.ErrOutOfRange) {
			t.Errorf("Path(%d) = %v, want ErrOutOfRange", i, err)
		}
	}
}

func TestSkeletonWorldTransforms(t *testing.T) {
	root := bone("root", -1)
	root.Transform.PosX = 10
	child := bone("child", 0)
	child.Transform.PosY = 5
	s, err := NewSkeleton([]evaluator.BoneDesc{child, root})
	if err == nil {
		t.Fatal("child referencing bone 0 as itself should be a cycle")
	}

	child.Parent = 1
	s, err = NewSkeleton([]evaluator.BoneDesc{child, root})
	if err != nil {
		t.Fatal(err)
	}
	w, _ := s.World(0)
	got := w.Apply(math.NewVec2(0, 0))
	if got != math.NewVec2(10, 5) {
		t.Errorf("child origin in world = %v, want (10, 5)\n%s", got, spew.Sdump(w))
	}
}

func TestSkeletonEmpty(t *testing.T) {
	s, err := NewSkeleton(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 || len(s.Roots()) != 0 || len(s.Bones()) != 0 {
		t.Errorf("empty skeleton = %s", spew.Sdump(s))
	}
}
