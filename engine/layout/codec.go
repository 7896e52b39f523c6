package layout

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
)

var byteOrder = binary.LittleEndian

// Encode writes one record. Padding is written as zeros.
func Encode[T any](rec *T) ([]byte, error) {
	return binary.Append(nil, byteOrder, rec)
}

// Decode reads one record from the start of data. Padding is skipped.
func Decode[T any](data []byte, rec *T) error {
	size := binary.Size(rec)
	if size < 0 {
		return errors.Errorf("%T is not a fixed size record", rec)
	}
	if len(data) < size {
		return errors.Wrapf(core.ErrMalformedAsset, "%T needs %d bytes, have %d", rec, size, len(data))
	}
	if _, err := binary.Decode(data[:size], byteOrder, rec); err != nil {
		return errors.Wrapf(core.ErrMalformedAsset, "decoding %T: %v", rec, err)
	}
	return nil
}

// AppendRecords appends every record of recs to dst.
func AppendRecords[T any](dst []byte, recs []T) ([]byte, error) {
	if len(recs) == 0 {
		return dst, nil
	}
	return binary.Append(dst, byteOrder, recs)
}

// DecodeSlice reads count consecutive records from data.
func DecodeSlice[T any](data []byte, count int) ([]T, error) {
	out := make([]T, count)
	if count == 0 {
		return out, nil
	}
	size := binary.Size(out)
	if size < 0 {
		return nil, errors.Errorf("%T is not a fixed size record", out)
	}
	if len(data) < size {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "%d x %T needs %d bytes, have %d", count, out[0], size, len(data))
	}
	if _, err := binary.Decode(data[:size], byteOrder, out); err != nil {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "decoding %T: %v", out, err)
	}
	return out, nil
}
