package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Header limits.
const (
	MaxHeaderSize    = 100 * 1024 * 1024
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// parseHeader decodes the JSON header into tensor descriptions ordered by
// data offset. Every entry must have a safe name, a known dtype, a byte
// size matching its shape, and a region inside the dataSize bytes that
// follow the header without overlapping its neighbours.
func parseHeader(headerBytes []byte, dataSize int64) ([]TensorMeta, map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(headerBytes)).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	var metadata map[string]string
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(raw, metadataKey)
	}
	if len(raw) > MaxTensorCount {
		return nil, nil, &HeaderError{
			Detail: fmt.Sprintf("%d entries, at most %d allowed", len(raw), MaxTensorCount),
			Err:    ErrTooManyTensors,
		}
	}

	metas := make([]TensorMeta, 0, len(raw))
	for name, msg := range raw {
		if err := checkName(name); err != nil {
			return nil, nil, err
		}
		var e headerEntry
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, nil, fmt.Errorf("tensor %s: failed to parse header entry: %w", name, err)
		}
		m, err := e.meta(name)
		if err != nil {
			return nil, nil, err
		}
		metas = append(metas, m)
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Offset != metas[j].Offset {
			return metas[i].Offset < metas[j].Offset
		}
		return metas[i].Name < metas[j].Name
	})

	var end int64
	for i, m := range metas {
		if m.Offset < 0 || m.Size < 0 {
			return nil, nil, &HeaderError{
				Tensor: m.Name,
				Detail: fmt.Sprintf("data_offsets [%d, %d]", m.Offset, m.Offset+m.Size),
				Err:    ErrNegativeOffset,
			}
		}
		if m.Size > dataSize-m.Offset {
			return nil, nil, &HeaderError{
				Tensor: m.Name,
				Detail: fmt.Sprintf("ends at %d, data section has %d bytes", m.Offset+m.Size, dataSize),
				Err:    ErrOutOfBounds,
			}
		}
		if i > 0 && m.Offset < end {
			return nil, nil, &HeaderError{
				Tensor: m.Name,
				Detail: fmt.Sprintf("starts at %d inside %q, which ends at %d", m.Offset, metas[i-1].Name, end),
				Err:    ErrOffsetOverlap,
			}
		}
		end = m.Offset + m.Size
	}
	return metas, metadata, nil
}

func (e headerEntry) meta(name string) (TensorMeta, error) {
	size, err := elemSize(e.DType)
	if err != nil {
		return TensorMeta{}, fmt.Errorf("tensor %s: %w", name, err)
	}

	shape := make(tensor.Shape, len(e.Shape))
	for i, d := range e.Shape {
		shape[i] = int(d)
	}
	if err := shape.Validate(); err != nil {
		return TensorMeta{}, fmt.Errorf("tensor %s: %w", name, err)
	}
	n := shape.NumElements()
	if n > math.MaxInt/size {
		return TensorMeta{}, &HeaderError{
			Tensor: name,
			Detail: fmt.Sprintf("%v elements of %s overflow a byte count", shape, e.DType),
			Err:    ErrSizeMismatch,
		}
	}

	m := TensorMeta{
		Name:   name,
		DType:  e.DType,
		Shape:  shape,
		Offset: e.DataOffsets[0],
		Size:   e.DataOffsets[1] - e.DataOffsets[0],
	}
	if want := int64(n * size); m.Size >= 0 && m.Size != want {
		return TensorMeta{}, &HeaderError{
			Tensor: name,
			Detail: fmt.Sprintf("%d bytes, shape %v needs %d", m.Size, shape, want),
			Err:    ErrSizeMismatch,
		}
	}
	return m, nil
}

// checkName rejects names that are empty, oversized, or could be taken
// for a file path.
func checkName(name string) error {
	switch {
	case name == "":
		return &HeaderError{Detail: "empty tensor name", Err: ErrInvalidTensorName}
	case len(name) > MaxTensorNameLen:
		return &HeaderError{
			Tensor: name[:32] + "...",
			Detail: fmt.Sprintf("%d bytes, at most %d allowed", len(name), MaxTensorNameLen),
			Err:    ErrTensorNameTooLong,
		}
	case strings.Contains(name, ".."), strings.ContainsAny(name, "/\\\x00"):
		return &HeaderError{Tensor: name, Detail: "looks like a path", Err: ErrInvalidTensorName}
	}
	return nil
}
