package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/lossmix/internal/tensor"
)

// ReadSafeTensors reads every tensor of a SafeTensors file into a list,
// ordered by position in the data section. It also returns the header
// metadata, which may be nil.
func ReadSafeTensors(path string, backend tensor.Backend) (*tensor.List, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for batch loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	list, metadata, err := ReadFrom(file, backend)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, metadata, nil
}

// ReadFrom reads a SafeTensors stream. See ReadSafeTensors.
func ReadFrom(r io.Reader, backend tensor.Backend) (*tensor.List, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	metas, metadata, err := parseHeader(headerBytes, int64(len(data)))
	if err != nil {
		return nil, nil, err
	}

	list := tensor.NewList()
	for _, m := range metas {
		values, err := decode(m.DType, data[m.Offset:m.Offset+m.Size])
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %s: %w", m.Name, err)
		}
		t, err := tensor.FromSlice(values, m.Shape, backend)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %s: %w", m.Name, err)
		}
		if err := list.AppendNamed(m.Name, t); err != nil {
			return nil, nil, err
		}
	}
	return list, metadata, nil
}
