package layout

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

// Record names one fixed-size record of the layout.
type Record uint32

const (
	RecordVec4 Record = iota
	RecordMat4
	RecordVertex
	RecordBone
	RecordStateMachine
	RecordStateMachineInput
	RecordConstant
	RecordDraw
	RecordStencil
	RecordRenderObject

	RecordCount
)

var recordNames = [RecordCount]string{
	"Vec4",
	"Mat4",
	"Vertex",
	"Bone",
	"StateMachine",
	"StateMachineInput",
	"Constant",
	"Draw",
	"Stencil",
	"RenderObject",
}

func (r Record) String() string {
	if r >= RecordCount {
		return "Unknown"
	}
	return recordNames[r]
}

// Sizes holds one byte size per Record, as declared by a producer.
type Sizes [RecordCount]uint32

// Expected returns the sizes this build of the bridge reads and writes.
func Expected() Sizes {
	return Sizes{
		RecordVec4:              Vec4Size,
		RecordMat4:              Mat4Size,
		RecordVertex:            VertexSize,
		RecordBone:              BoneSize,
		RecordStateMachine:      StateMachineSize,
		RecordStateMachineInput: StateMachineInputSize,
		RecordConstant:          ConstantSize,
		RecordDraw:              DrawSize,
		RecordStencil:           StencilSize,
		RecordRenderObject:      RenderObjectSize,
	}
}

/**
 * @brief Checks the record sizes declared by a producer against Expected.
 * @param declared The sizes the producer emits.
 * @returns nil when every size matches, otherwise an error wrapping core.ErrLayoutMismatch
 * naming the first offending record.
 */
func Verify(declared Sizes) error {
	expected := Expected()
	for r := Record(0); r < RecordCount; r++ {
		if declared[r] != expected[r] {
			return errors.Wrapf(core.ErrLayoutMismatch, "%s record declared as %d bytes, expected %d", r, declared[r], expected[r])
		}
	}
	return nil
}

// SelfCheck verifies that the encoder emits exactly the expected size for
// every record. A failure means the record definitions were edited without
// updating the size table.
func SelfCheck() error {
	samples := [RecordCount]any{
		RecordVec4:              math.Vec4{},
		RecordMat4:              math.Mat4{},
		RecordVertex:            Vertex{},
		RecordBone:              Bone{},
		RecordStateMachine:      StateMachine{},
		RecordStateMachineInput: StateMachineInput{},
		RecordConstant:          Constant{},
		RecordDraw:              Draw{},
		RecordStencil:           Stencil{},
		RecordRenderObject:      RenderObject{},
	}
	var emitted Sizes
	for r, v := range samples {
		n := binary.Size(v)
		if n < 0 {
			return errors.Wrapf(core.ErrLayoutMismatch, "%s record is not fixed size", Record(r))
		}
		emitted[r] = uint32(n)
	}
	return Verify(emitted)
}
