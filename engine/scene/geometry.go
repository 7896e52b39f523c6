package scene

import (
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/renderer/metadata"
)

// snapshot is one complete frame of geometry and render batches.
type snapshot struct {
	number   uint64
	vertices []float32
	indices  []uint32
	objects  []metadata.RenderObject
}

func (s *snapshot) reset(number uint64) {
	s.number = number
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	s.objects = s.objects[:0]
}

func (s *snapshot) vertexCount() int {
	return len(s.vertices) / layout.VertexStride
}

/**
 * @brief Double buffered frame storage. The next frame is built into the
 * spare snapshot and only becomes current once it is complete, so a failed
 * build leaves the current frame untouched. The spare reuses the storage of
 * the frame before the current one.
 */
type geometry struct {
	current *snapshot
	spare   *snapshot
}

func newGeometry() *geometry {
	return &geometry{
		current: &snapshot{},
		spare:   &snapshot{},
	}
}

// build fills the spare snapshot and swaps it in when fn succeeds.
func (g *geometry) build(fn func(next *snapshot) error) error {
	next := g.spare
	next.reset(g.current.number + 1)
	if err := fn(next); err != nil {
		return err
	}
	g.spare, g.current = g.current, next
	return nil
}

func (g *geometry) release() {
	g.current = &snapshot{}
	g.spare = &snapshot{}
}
