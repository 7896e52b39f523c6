//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

const fixturesDir = "assets"

type Build mg.Namespace

// Tidies the module.
func (Build) Tidy() error {
	return goTidy()
}

// Runs go vet on every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Runs the test suite with the race detector.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Writes sample scene containers into the assets directory.
func (Build) Fixtures() error {
	if err := os.MkdirAll(fixturesDir, 0o755); err != nil {
		return err
	}
	fixtures := map[string]func() *evaluator.ContainerWriter{
		"sample.scn":   sampleScene,
		"clipped.scn":  clippedScene,
		"skeleton.scn": skeletonScene,
	}
	for name, build := range fixtures {
		data, err := build().Bytes()
		if err != nil {
			return fmt.Errorf("building %s: %w", name, err)
		}
		path := filepath.Join(fixturesDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}

func square(x, y, size float32) ([]layout.Vertex, []uint32) {
	return []layout.Vertex{
			{X: x, Y: y},
			{X: x + size, Y: y, U: 1},
			{X: x + size, Y: y + size, U: 1, V: 1},
			{X: x, Y: y + size, V: 1},
		},
		[]uint32{0, 1, 2, 0, 2, 3}
}

func solid(r, g, b float32) layout.Draw {
	d := layout.Draw{
		World:     math.NewMat4Identity(),
		FillType:  uint32(evaluator.FillSolid),
		BlendMode: uint32(evaluator.BlendModeSrcOver),
	}
	d.Colors[0] = math.NewVec4(r, g, b, 1)
	return d
}

func sampleScene() *evaluator.ContainerWriter {
	w := evaluator.NewContainerWriter(256, 256)
	w.AddBone("root", -1, math.BoneTransform{ScaleX: 1, ScaleY: 1})
	w.AddStateMachine("main",
		evaluator.InputDesc{Name: "hover", Type: evaluator.InputBool},
		evaluator.InputDesc{Name: "click", Type: evaluator.InputTrigger},
	)
	spin := w.AddAnimation("spin", 2, true)

	v, ix := square(-32, -32, 64)
	d := w.AddDraw(solid(1, 0.5, 0), v, ix)
	w.AddTrack(d, spin,
		evaluator.Keyframe{Time: 0, Transform: math.NewMat2DFromTRS(0, 0, 0, 1, 1)},
		evaluator.Keyframe{Time: 1, Transform: math.NewMat2DFromTRS(0, 0, 3.14159, 1, 1)},
		evaluator.Keyframe{Time: 2, Transform: math.NewMat2DFromTRS(0, 0, 6.28318, 1, 1)},
	)
	return w
}

func clippedScene() *evaluator.ContainerWriter {
	w := evaluator.NewContainerWriter(128, 128)
	w.AddAnimation("still", 1, false)

	v, ix := square(0, 0, 64)
	clip := layout.Draw{World: math.NewMat4Identity(), DrawMode: uint32(evaluator.DrawModeClipIncrement)}
	w.AddDraw(clip, v, ix)

	content := solid(0, 0.4, 1)
	content.ClipIndex = 1
	content.BlendMode = uint32(evaluator.BlendModeMultiply)
	v, ix = square(16, 16, 64)
	w.AddDraw(content, v, ix)

	clip.DrawMode = uint32(evaluator.DrawModeClipDecrement)
	v, ix = square(0, 0, 64)
	w.AddDraw(clip, v, ix)
	return w
}

func skeletonScene() *evaluator.ContainerWriter {
	w := evaluator.NewContainerWriter(512, 512)
	root := w.AddBone("root", -1, math.BoneTransform{ScaleX: 1, ScaleY: 1})
	spine := w.AddBone("spine", root, math.BoneTransform{PosY: 40, ScaleX: 1, ScaleY: 1, Length: 60})
	w.AddBone("head", spine, math.BoneTransform{PosY: 60, ScaleX: 1, ScaleY: 1, Length: 20})
	w.AddBone("arm.l", spine, math.BoneTransform{PosX: -20, PosY: 50, ScaleX: 1, ScaleY: 1, Rotation: 1.57, Length: 35})
	w.AddBone("arm.r", spine, math.BoneTransform{PosX: 20, PosY: 50, ScaleX: 1, ScaleY: 1, Rotation: -1.57, Length: 35})
	w.AddAnimation("idle", 1, true)
	return w
}
