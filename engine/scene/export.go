package scene

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
	"github.com/spaghettifunk/scenebridge/engine/renderer/metadata"
)

/** @brief The four bytes an exported frame starts with. */
const FrameMagic = "SCNF"

/**
 * @brief A frame decoded from its exported form.
 */
type ExportedFrame struct {
	Vertices      []float32
	Indices       []uint32
	RenderObjects []metadata.RenderObject
}

/**
 * @brief Serialises the current frame for a foreign reader. Layout:
 * magic, version, then u32 counts of vertices, indices, render objects,
 * constants and constant values, followed by the Vertex, u32 index,
 * RenderObject, Constant and Vec4 tables in that order. Each RenderObject's
 * constant range indexes the Constant table and each Constant's value range
 * indexes the Vec4 table.
 */
func ExportFrame(s *Scene) ([]byte, error) {
	s.mustBeLoaded("export")
	cur := s.geometry.current

	vertices := make([]layout.Vertex, cur.vertexCount())
	for i := range vertices {
		v := cur.vertices[i*layout.VertexStride:]
		vertices[i] = layout.Vertex{X: v[0], Y: v[1], U: v[2], V: v[3]}
	}

	objects := make([]layout.RenderObject, len(cur.objects))
	var constants []layout.Constant
	var values []math.Vec4
	for i := range cur.objects {
		ro := &cur.objects[i]
		objects[i] = ro.Record(uint32(len(constants)))
		for _, c := range ro.Constants {
			constants = append(constants, layout.Constant{
				NameHash:   c.NameHash,
				ValueStart: uint32(len(values)),
				ValueCount: uint32(len(c.Values)),
			})
			values = append(values, c.Values...)
		}
	}

	le := binary.LittleEndian
	out := []byte(FrameMagic)
	out = le.AppendUint32(out, layout.Version)
	for _, n := range []int{len(vertices), len(cur.indices), len(objects), len(constants), len(values)} {
		out = le.AppendUint32(out, uint32(n))
	}
	var err error
	if out, err = layout.AppendRecords(out, vertices); err != nil {
		return nil, err
	}
	if out, err = layout.AppendRecords(out, cur.indices); err != nil {
		return nil, err
	}
	if out, err = layout.AppendRecords(out, objects); err != nil {
		return nil, err
	}
	if out, err = layout.AppendRecords(out, constants); err != nil {
		return nil, err
	}
	if out, err = layout.AppendRecords(out, values); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportFrame decodes a frame written by ExportFrame.
func ImportFrame(data []byte) (*ExportedFrame, error) {
	if len(data) < 8 || string(data[:4]) != FrameMagic {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "missing %q header", FrameMagic)
	}
	r := layout.NewReader(data[4:])
	if v := r.U32(); v != layout.Version {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "unsupported frame version %d", v)
	}
	nv, ni, no, nc, nval := r.U32(), r.U32(), r.U32(), r.U32(), r.U32()
	vertices := layout.ReadRecords[layout.Vertex](r, nv)
	indices := r.Uint32s(ni)
	objects := layout.ReadRecords[layout.RenderObject](r, no)
	constants := layout.ReadRecords[layout.Constant](r, nc)
	values := layout.ReadRecords[math.Vec4](r, nval)
	if err := r.Err(); err != nil {
		return nil, err
	}

	f := &ExportedFrame{
		Vertices:      make([]float32, 0, len(vertices)*layout.VertexStride),
		Indices:       indices,
		RenderObjects: make([]metadata.RenderObject, len(objects)),
	}
	for _, v := range vertices {
		f.Vertices = append(f.Vertices, v.X, v.Y, v.U, v.V)
	}
	for i, rec := range objects {
		if uint64(rec.ConstantStart)+uint64(rec.ConstantCount) > uint64(len(constants)) {
			return nil, errors.Wrapf(core.ErrMalformedAsset, "render object %d: constants out of range", i)
		}
		cs := make([]metadata.Constant, 0, rec.ConstantCount)
		for _, c := range constants[rec.ConstantStart : rec.ConstantStart+rec.ConstantCount] {
			if uint64(c.ValueStart)+uint64(c.ValueCount) > uint64(len(values)) {
				return nil, errors.Wrapf(core.ErrMalformedAsset, "render object %d: constant values out of range", i)
			}
			cs = append(cs, metadata.Constant{
				NameHash: c.NameHash,
				Values:   append([]math.Vec4(nil), values[c.ValueStart:c.ValueStart+c.ValueCount]...),
			})
		}
		f.RenderObjects[i] = metadata.RenderObjectFromRecord(rec, cs)
	}
	return f, nil
}
