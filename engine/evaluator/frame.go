package evaluator

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/layout"
)

/**
 * @brief Serialises a frame as three counted tables: vertices, indices
 * and draws, each a u32 count followed by layout records.
 */
func EncodeFrame(f *Frame) ([]byte, error) {
	le := binary.LittleEndian
	size := 12 + len(f.Vertices)*layout.VertexSize + len(f.Indices)*4 + len(f.Draws)*layout.DrawSize
	out := make([]byte, 0, size)

	var err error
	out = le.AppendUint32(out, uint32(len(f.Vertices)))
	if out, err = layout.AppendRecords(out, f.Vertices); err != nil {
		return nil, err
	}
	out = le.AppendUint32(out, uint32(len(f.Indices)))
	if out, err = layout.AppendRecords(out, f.Indices); err != nil {
		return nil, err
	}
	out = le.AppendUint32(out, uint32(len(f.Draws)))
	if out, err = layout.AppendRecords(out, f.Draws); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeFrame reads a frame written by EncodeFrame and validates it.
func DecodeFrame(data []byte) (*Frame, error) {
	r := layout.NewReader(data)
	f := &Frame{}
	f.Vertices = layout.ReadRecords[layout.Vertex](r, r.U32())
	f.Indices = r.Uint32s(r.U32())
	f.Draws = layout.ReadRecords[layout.Draw](r, r.U32())
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "decoding frame")
	}
	if r.Remaining() != 0 {
		return nil, errors.Errorf("decoding frame: %d trailing bytes", r.Remaining())
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}
