package scene

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
	"github.com/spaghettifunk/scenebridge/engine/renderer/metadata"
)

/**
 * @brief Transcribes an evaluator frame into the snapshot: one render object
 * per draw, in draw order. Nothing is merged. Draws without geometry are
 * skipped.
 */
func transcribe(f *evaluator.Frame, next *snapshot) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for i := range f.Draws {
		d := &f.Draws[i]
		if d.VertexCount == 0 || d.IndexCount == 0 {
			continue
		}

		base := uint32(next.vertexCount())
		for _, v := range f.Vertices[d.VertexStart : d.VertexStart+d.VertexCount] {
			next.vertices = append(next.vertices, v.X, v.Y, v.U, v.V)
		}
		indexStart := uint32(len(next.indices))
		for _, ix := range f.Indices[d.IndexStart : d.IndexStart+d.IndexCount] {
			next.indices = append(next.indices, base+ix)
		}

		ro := nextObject(next)
		ro.WorldTransform = d.World
		ro.TextureTransform = math.NewMat4Identity()
		ro.PrimitiveType = metadata.PrimitiveTriangles
		ro.IndexType = metadata.TypeUnsignedInt
		ro.VertexStart = base
		ro.VertexCount = d.VertexCount
		ro.IndexStart = indexStart
		ro.IndexCount = d.IndexCount

		setConstants(ro, d)

		ro.SourceBlendFactor, ro.DestinationBlendFactor = blendFactors(evaluator.BlendMode(d.BlendMode))
		ro.SetBlendFactors = true

		if err := applyDrawMode(ro, evaluator.DrawMode(d.DrawMode), d.ClipIndex); err != nil {
			return errors.Wrapf(err, "draw %d", i)
		}

		ro.FaceWinding = metadata.FaceWindingCCW
		if d.EvenOdd != 0 {
			if d.PathIndex%2 != 0 {
				ro.FaceWinding = metadata.FaceWindingCW
			}
			ro.SetFaceWinding = true
		}
	}
	return nil
}

// nextObject appends a zeroed render object, reusing the constant storage
// of whatever object previously lived in that slot.
func nextObject(s *snapshot) *metadata.RenderObject {
	n := len(s.objects)
	if n < cap(s.objects) {
		s.objects = s.objects[:n+1]
	} else {
		s.objects = append(s.objects, metadata.RenderObject{})
	}
	ro := &s.objects[n]
	constants := ro.Constants[:0]
	*ro = metadata.RenderObject{Constants: constants}
	return ro
}

func setConstants(ro *metadata.RenderObject, d *layout.Draw) {
	ro.SetConstant(metadata.HashProperties, math.NewVec4(float32(d.FillType), float32(d.StopCount), 0, 0))
	ro.SetConstant(metadata.HashGradientLimits, d.Gradient)
	ro.SetConstant(metadata.HashColors, d.Colors[:]...)
	ro.SetConstant(metadata.HashStops, d.Stops[:]...)
}

/**
 * @brief Maps a blend mode to source and destination factors. Modes without
 * a fixed function equivalent fall back to premultiplied alpha blending.
 */
func blendFactors(mode evaluator.BlendMode) (metadata.BlendFactor, metadata.BlendFactor) {
	switch mode {
	case evaluator.BlendModeScreen:
		return metadata.BlendFactorOneMinusDstColor, metadata.BlendFactorOne
	case evaluator.BlendModeMultiply:
		return metadata.BlendFactorDstColor, metadata.BlendFactorOneMinusSrcAlpha
	default:
		return metadata.BlendFactorOne, metadata.BlendFactorOneMinusSrcAlpha
	}
}

/**
 * @brief Fills the stencil state for a draw. Clip draws write the clip
 * depth into the stencil buffer without touching colour. Content draws
 * only pass where the stencil equals their clip index, and skip the
 * stencil test entirely when they are not clipped.
 */
func applyDrawMode(ro *metadata.RenderObject, mode evaluator.DrawMode, clipIndex uint8) error {
	st := &ro.StencilTestParams
	switch mode {
	case evaluator.DrawModeDefault:
		face := metadata.StencilFace{
			Func:     metadata.CompareFuncEqual,
			OpSFail:  metadata.StencilOpKeep,
			OpDPFail: metadata.StencilOpKeep,
			OpDPPass: metadata.StencilOpKeep,
		}
		st.Front, st.Back = face, face
		st.Ref = clipIndex
		st.RefMask = 0xFF
		st.BufferMask = 0x00
		st.ColorBufferMask = 0x0F
		ro.SetStencilTest = clipIndex != 0
	case evaluator.DrawModeClipIncrement, evaluator.DrawModeClipDecrement:
		op := metadata.StencilOpIncr
		if mode == evaluator.DrawModeClipDecrement {
			op = metadata.StencilOpDecr
		}
		face := metadata.StencilFace{
			Func:     metadata.CompareFuncAlways,
			OpSFail:  metadata.StencilOpKeep,
			OpDPFail: metadata.StencilOpKeep,
			OpDPPass: op,
		}
		st.Front, st.Back = face, face
		st.Ref = 0
		st.RefMask = 0xFF
		st.BufferMask = 0xFF
		st.ColorBufferMask = 0x00
		ro.SetStencilTest = true
	default:
		return errors.Errorf("unknown draw mode %d", mode)
	}
	return nil
}
