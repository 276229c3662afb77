package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SafeTensors dtype names.
const (
	DTypeF32 = "F32"
	DTypeF64 = "F64"
	DTypeI32 = "I32"
	DTypeI64 = "I64"
)

// metadataKey is the reserved header entry for free-form string metadata.
const metadataKey = "__metadata__"

// headerEntry is one tensor in the JSON header.
type headerEntry struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string
	DType  string
	Shape  []int
	Offset int64 // Relative to the start of the data section
	Size   int64 // In bytes
}

// elemSize returns the byte width of dtype.
func elemSize(dtype string) (int, error) {
	switch dtype {
	case DTypeF32, DTypeI32:
		return 4, nil
	case DTypeF64, DTypeI64:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, dtype)
	}
}

// decode converts little-endian elements of dtype to float64.
func decode(dtype string, raw []byte) ([]float64, error) {
	size, err := elemSize(dtype)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw)/size)
	le := binary.LittleEndian
	for i := range out {
		b := raw[i*size:]
		switch dtype {
		case DTypeF32:
			out[i] = float64(math.Float32frombits(le.Uint32(b)))
		case DTypeF64:
			out[i] = math.Float64frombits(le.Uint64(b))
		case DTypeI32:
			out[i] = float64(int32(le.Uint32(b)))
		case DTypeI64:
			out[i] = float64(int64(le.Uint64(b)))
		}
	}
	return out, nil
}

// encode converts float64 values to little-endian elements of dtype.
// Integer dtypes truncate toward zero.
func encode(dtype string, values []float64) ([]byte, error) {
	size, err := elemSize(dtype)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(values)*size)
	le := binary.LittleEndian
	for i, v := range values {
		b := out[i*size:]
		switch dtype {
		case DTypeF32:
			le.PutUint32(b, math.Float32bits(float32(v)))
		case DTypeF64:
			le.PutUint64(b, math.Float64bits(v))
		case DTypeI32:
			le.PutUint32(b, uint32(int32(v)))
		case DTypeI64:
			le.PutUint64(b, uint64(int64(v)))
		}
	}
	return out, nil
}
