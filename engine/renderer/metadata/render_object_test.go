package metadata

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

func TestHashName(t *testing.T) {
	if got := HashName(""); got != 0xcbf29ce484222325 {
		t.Errorf("HashName(\"\") = %#x, want FNV-1a offset basis", got)
	}
	seen := map[uint64]string{}
	for _, n := range []string{ConstantProperties, ConstantGradientLimits, ConstantColors, ConstantStops} {
		h := HashName(n)
		if other, dup := seen[h]; dup {
			t.Errorf("HashName(%q) collides with %q", n, other)
		}
		seen[h] = n
	}
}

func TestSetConstantKeepsInsertionOrder(t *testing.T) {
	var ro RenderObject
	ro.SetConstant(HashProperties, math.NewVec4(1, 2, 0, 0))
	ro.SetConstant(HashColors, math.NewVec4(1, 1, 1, 1), math.NewVec4(0, 0, 0, 1))
	ro.SetConstant(HashProperties, math.NewVec4(3, 4, 0, 0))

	if len(ro.Constants) != 2 {
		t.Fatalf("len(Constants) = %d, want 2", len(ro.Constants))
	}
	if ro.Constants[0].NameHash != HashProperties || ro.Constants[1].NameHash != HashColors {
		t.Errorf("order changed: %s", spew.Sdump(ro.Constants))
	}
	c, ok := ro.Constant(HashProperties)
	if !ok || len(c.Values) != 1 || c.Values[0] != math.NewVec4(3, 4, 0, 0) {
		t.Errorf("Constant(properties) = %v, %v", c, ok)
	}
	if _, ok := ro.Constant(HashStops); ok {
		t.Errorf("Constant(stops) found on an object without it")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	ro := RenderObject{
		WorldTransform:         math.NewMat4Identity(),
		TextureTransform:       math.NewMat4Identity(),
		Material:               42,
		PrimitiveType:          PrimitiveTriangles,
		IndexType:              TypeUnsignedInt,
		SourceBlendFactor:      BlendFactorOne,
		DestinationBlendFactor: BlendFactorOneMinusSrcAlpha,
		FaceWinding:            FaceWindingCW,
		StencilTestParams: StencilTestParams{
			Front:              StencilFace{Func: CompareFuncEqual, OpSFail: StencilOpKeep, OpDPFail: StencilOpKeep, OpDPPass: StencilOpKeep},
			Back:               StencilFace{Func: CompareFuncEqual},
			Ref:                2,
			RefMask:            0xFF,
			ColorBufferMask:    0x0F,
			SeparateFaceStates: true,
		},
		VertexStart:     4,
		VertexCount:     8,
		IndexStart:      6,
		IndexCount:      12,
		SetBlendFactors: true,
		SetStencilTest:  true,
	}
	ro.SetConstant(HashProperties, math.NewVec4(0, 0, 0, 0))

	rec := ro.Record(3)
	if rec.ConstantStart != 3 || rec.ConstantCount != 1 {
		t.Errorf("constant range = [%d, +%d), want [3, +1)", rec.ConstantStart, rec.ConstantCount)
	}
	if rec.Flags != layout.FlagSetBlendFactors|layout.FlagSetStencilTest {
		t.Errorf("Flags = %#b", rec.Flags)
	}

	b, err := layout.Encode(&rec)
	if err != nil {
		t.Fatal(err)
	}
	var decoded layout.RenderObject
	if err := layout.Decode(b, &decoded); err != nil {
		t.Fatal(err)
	}
	back := RenderObjectFromRecord(decoded, ro.Constants)
	if back.StencilTestParams != ro.StencilTestParams ||
		back.SetBlendFactors != ro.SetBlendFactors ||
		back.SetStencilTest != ro.SetStencilTest ||
		back.SetFaceWinding != ro.SetFaceWinding ||
		back.FaceWinding != ro.FaceWinding ||
		back.Material != ro.Material ||
		back.IndexStart != ro.IndexStart ||
		back.IndexCount != ro.IndexCount {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", spew.Sdump(back), spew.Sdump(ro))
	}
}
