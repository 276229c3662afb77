package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/born-ml/lossmix/internal/tensor"
)

// SafeTensorsWriter writes tensor lists in SafeTensors format.
type SafeTensorsWriter struct {
	file   *os.File
	dtype  string
	closed bool
}

// NewSafeTensorsWriter creates a new SafeTensors file writer that stores
// values as dtype (F32, F64, I32 or I64).
func NewSafeTensorsWriter(path, dtype string) (*SafeTensorsWriter, error) {
	if _, err := elemSize(dtype); err != nil {
		return nil, err
	}
	//nolint:gosec // G304: File path comes from user input, which is expected for batch dumps
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &SafeTensorsWriter{file: file, dtype: dtype}, nil
}

// WriteSafeTensors writes list to path as F64.
//
// Tensors are laid out in list order, so ReadSafeTensors returns them in
// the same order.
func WriteSafeTensors(path string, list *tensor.List, metadata map[string]string) error {
	writer, err := NewSafeTensorsWriter(path, DTypeF64)
	if err != nil {
		return err
	}
	if err := writer.WriteList(list, metadata); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// WriteList writes every entry of list under its name.
func (w *SafeTensorsWriter) WriteList(list *tensor.List, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	header := make(map[string]any, list.Len()+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	names := list.Names()
	payloads := make([][]byte, len(names))
	var currentOffset int64
	for i, name := range names {
		if err := checkName(name); err != nil {
			return err
		}
		t, _ := list.Get(name)

		data, err := encode(w.dtype, t.Data())
		if err != nil {
			return err
		}
		payloads[i] = data

		shape := make([]int64, t.Rank())
		for d, dim := range t.Shape() {
			shape[d] = int64(dim)
		}
		size := int64(len(data))
		header[name] = headerEntry{
			DType:       w.dtype,
			Shape:       shape,
			DataOffsets: [2]int64{currentOffset, currentOffset + size},
		}
		currentOffset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w.file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, data := range payloads {
		if _, err := w.file.Write(data); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", names[i], err)
		}
	}
	return nil
}

// Close closes the writer and the underlying file.
func (w *SafeTensorsWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
