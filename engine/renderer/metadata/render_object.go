package metadata

import (
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

/**
 * @brief Compare function and operations for one face of the stencil test.
 */
type StencilFace struct {
	Func CompareFunc
	/** @brief Applied when the stencil test fails. */
	OpSFail StencilOp
	/** @brief Applied when the stencil test passes and the depth test fails. */
	OpDPFail StencilOp
	/** @brief Applied when both tests pass. */
	OpDPPass StencilOp
}

/**
 * @brief Stencil state for a draw call.
 */
type StencilTestParams struct {
	Front StencilFace
	Back  StencilFace
	/** @brief The reference value compared against the buffer. */
	Ref uint8
	/** @brief Mask applied to both Ref and the buffer value before comparing. */
	RefMask uint8
	/** @brief Stencil buffer write mask. */
	BufferMask uint8
	/** @brief Colour write mask, one bit per RGBA channel. */
	ColorBufferMask    uint8
	ClearBuffer        bool
	SeparateFaceStates bool
}

/**
 * @brief One draw call's worth of geometry range plus pipeline state.
 * The Set* flags are asserted by the producer: a group of fields is only
 * meaningful when its flag is set, and callers must ignore it otherwise.
 */
type RenderObject struct {
	/** @brief Shader constants, in insertion order. */
	Constants []Constant

	WorldTransform   math.Mat4
	TextureTransform math.Mat4

	/** @brief Opaque host handles. The bridge only carries them. */
	VertexBuffer      uint64
	VertexDeclaration uint64
	IndexBuffer       uint64
	Material          uint64
	Textures          [layout.MaxTextures]uint64

	PrimitiveType          PrimitiveType
	IndexType              IndexType
	SourceBlendFactor      BlendFactor
	DestinationBlendFactor BlendFactor
	FaceWinding            FaceWinding
	StencilTestParams      StencilTestParams

	/** @brief Vertex range [VertexStart, VertexStart+VertexCount) of the frame's vertex buffer, in vertices. */
	VertexStart uint32
	VertexCount uint32
	/** @brief Index range [IndexStart, IndexStart+IndexCount) of the frame's index buffer. */
	IndexStart uint32
	IndexCount uint32

	SetBlendFactors bool
	SetStencilTest  bool
	SetFaceWinding  bool
}

/**
 * @brief Looks up a constant by name hash.
 * @returns The constant and true if present.
 */
func (ro *RenderObject) Constant(nameHash uint64) (*Constant, bool) {
	for i := range ro.Constants {
		if ro.Constants[i].NameHash == nameHash {
			return &ro.Constants[i], true
		}
	}
	return nil, false
}

// SetConstant replaces the values of an existing constant or appends a new one.
func (ro *RenderObject) SetConstant(nameHash uint64, values ...math.Vec4) {
	if c, ok := ro.Constant(nameHash); ok {
		c.Values = append(c.Values[:0], values...)
		return
	}
	ro.Constants = append(ro.Constants, Constant{
		NameHash: nameHash,
		Values:   append([]math.Vec4(nil), values...),
	})
}

func (ro *RenderObject) Flags() uint8 {
	var flags uint8
	if ro.SetBlendFactors {
		flags |= layout.FlagSetBlendFactors
	}
	if ro.SetStencilTest {
		flags |= layout.FlagSetStencilTest
	}
	if ro.SetFaceWinding {
		flags |= layout.FlagSetFaceWinding
	}
	return flags
}

/**
 * @brief Converts the render object to its fixed layout record.
 * @param constantStart The index of this object's first constant in the exported constant table.
 */
func (ro *RenderObject) Record(constantStart uint32) layout.RenderObject {
	st := ro.StencilTestParams
	return layout.RenderObject{
		WorldTransform:         ro.WorldTransform,
		TextureTransform:       ro.TextureTransform,
		VertexBuffer:           ro.VertexBuffer,
		VertexDeclaration:      ro.VertexDeclaration,
		IndexBuffer:            ro.IndexBuffer,
		Material:               ro.Material,
		Textures:               ro.Textures,
		PrimitiveType:          uint32(ro.PrimitiveType),
		IndexType:              uint32(ro.IndexType),
		SourceBlendFactor:      uint32(ro.SourceBlendFactor),
		DestinationBlendFactor: uint32(ro.DestinationBlendFactor),
		FaceWinding:            uint32(ro.FaceWinding),
		Stencil: layout.Stencil{
			Front:              st.Front.record(),
			Back:               st.Back.record(),
			Ref:                st.Ref,
			RefMask:            st.RefMask,
			BufferMask:         st.BufferMask,
			ColorBufferMask:    st.ColorBufferMask,
			ClearBuffer:        boolByte(st.ClearBuffer),
			SeparateFaceStates: boolByte(st.SeparateFaceStates),
		},
		VertexStart:   ro.VertexStart,
		VertexCount:   ro.VertexCount,
		IndexStart:    ro.IndexStart,
		IndexCount:    ro.IndexCount,
		ConstantStart: constantStart,
		ConstantCount: uint32(len(ro.Constants)),
		Flags:         ro.Flags(),
	}
}

/**
 * @brief Rebuilds a render object from its layout record.
 * @param rec The record.
 * @param constants The constants the record's ConstantStart/ConstantCount range resolves to.
 */
func RenderObjectFromRecord(rec layout.RenderObject, constants []Constant) RenderObject {
	s := rec.Stencil
	return RenderObject{
		Constants:              constants,
		WorldTransform:         rec.WorldTransform,
		TextureTransform:       rec.TextureTransform,
		VertexBuffer:           rec.VertexBuffer,
		VertexDeclaration:      rec.VertexDeclaration,
		IndexBuffer:            rec.IndexBuffer,
		Material:               rec.Material,
		Textures:               rec.Textures,
		PrimitiveType:          PrimitiveType(rec.PrimitiveType),
		IndexType:              IndexType(rec.IndexType),
		SourceBlendFactor:      BlendFactor(rec.SourceBlendFactor),
		DestinationBlendFactor: BlendFactor(rec.DestinationBlendFactor),
		FaceWinding:            FaceWinding(rec.FaceWinding),
		StencilTestParams: StencilTestParams{
			Front:              stencilFaceFromRecord(s.Front),
			Back:               stencilFaceFromRecord(s.Back),
			Ref:                s.Ref,
			RefMask:            s.RefMask,
			BufferMask:         s.BufferMask,
			ColorBufferMask:    s.ColorBufferMask,
			ClearBuffer:        s.ClearBuffer != 0,
			SeparateFaceStates: s.SeparateFaceStates != 0,
		},
		VertexStart:     rec.VertexStart,
		VertexCount:     rec.VertexCount,
		IndexStart:      rec.IndexStart,
		IndexCount:      rec.IndexCount,
		SetBlendFactors: rec.Flags&layout.FlagSetBlendFactors != 0,
		SetStencilTest:  rec.Flags&layout.FlagSetStencilTest != 0,
		SetFaceWinding:  rec.Flags&layout.FlagSetFaceWinding != 0,
	}
}

func (f StencilFace) record() layout.StencilFace {
	return layout.StencilFace{
		Func:     uint8(f.Func),
		OpSFail:  uint8(f.OpSFail),
		OpDPFail: uint8(f.OpDPFail),
		OpDPPass: uint8(f.OpDPPass),
	}
}

func stencilFaceFromRecord(f layout.StencilFace) StencilFace {
	return StencilFace{
		Func:     CompareFunc(f.Func),
		OpSFail:  StencilOp(f.OpSFail),
		OpDPFail: StencilOp(f.OpDPFail),
		OpDPPass: StencilOp(f.OpDPPass),
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
