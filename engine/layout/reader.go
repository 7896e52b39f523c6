package layout

import (
	"encoding/binary"
	gomath "math"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
)

// Reader is a bounds-checked little-endian cursor. The first read past the
// end latches an error; later reads return zero values.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Err() error     { return r.err }
func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = errors.Wrapf(core.ErrMalformedAsset, "truncated %s at offset %d: need %d bytes, have %d", what, r.off, n, len(r.data)-r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Bytes(n int) []byte {
	return r.take(n, "bytes")
}

func (r *Reader) U32() uint32 {
	b := r.take(4, "u32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) F32() float32 {
	b := r.take(4, "f32")
	if b == nil {
		return 0
	}
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}

/**
 * @brief Reads count records of type T.
 * @param r The reader to consume from.
 * @param count The number of records.
 * @returns The records, or nil once the reader has failed.
 */
func ReadRecords[T any](r *Reader, count uint32) []T {
	if r.err != nil {
		return nil
	}
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		r.err = errors.Errorf("%T is not a fixed size record", zero)
		return nil
	}
	if uint64(count)*uint64(size) > uint64(r.Remaining()) {
		r.err = errors.Wrapf(core.ErrMalformedAsset, "truncated %d x %T at offset %d", count, zero, r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.take(int(count)*size, "records")
	out, err := DecodeSlice[T](b, int(count))
	if err != nil {
		r.err = err
		return nil
	}
	return out
}

// Floats reads count float32 values.
func (r *Reader) Floats(count uint32) []float32 {
	return ReadRecords[float32](r, count)
}

// Uint32s reads count uint32 values.
func (r *Reader) Uint32s(count uint32) []uint32 {
	return ReadRecords[uint32](r, count)
}
