package serialization

import (
	"fmt"
	"strings"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Name prefixes of a labeled batch file.
const (
	LabelPrefix      = "labels."
	PredictionPrefix = "predictions."
)

// ReadBatch reads a SafeTensors file as a single list.
func ReadBatch(path string, backend tensor.Backend) (*tensor.List, error) {
	list, _, err := ReadSafeTensors(path, backend)
	return list, err
}

// ReadLabeledBatch reads a file written by WriteLabeledBatch and splits it
// into labels and predictions, stripping the prefixes.
func ReadLabeledBatch(path string, backend tensor.Backend) (labels, predictions *tensor.List, err error) {
	all, _, err := ReadSafeTensors(path, backend)
	if err != nil {
		return nil, nil, err
	}
	labels, predictions, err = SplitLabeled(all)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, predictions, nil
}

// SplitLabeled separates a combined list by name prefix.
func SplitLabeled(all *tensor.List) (labels, predictions *tensor.List, err error) {
	labels, predictions = tensor.NewList(), tensor.NewList()
	for _, name := range all.Names() {
		t, _ := all.Get(name)
		switch {
		case strings.HasPrefix(name, LabelPrefix):
			err = labels.AppendNamed(strings.TrimPrefix(name, LabelPrefix), t)
		case strings.HasPrefix(name, PredictionPrefix):
			err = predictions.AppendNamed(strings.TrimPrefix(name, PredictionPrefix), t)
		default:
			err = fmt.Errorf("%w: %q", ErrUnlabeledTensor, name)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return labels, predictions, nil
}

// WriteLabeledBatch writes labels and predictions to one file as F64, each
// entry under its prefixed name.
func WriteLabeledBatch(path string, labels, predictions *tensor.List, metadata map[string]string) error {
	all := tensor.NewList()
	for _, side := range []struct {
		prefix string
		list   *tensor.List
	}{{LabelPrefix, labels}, {PredictionPrefix, predictions}} {
		for _, name := range side.list.Names() {
			t, _ := side.list.Get(name)
			if err := all.AppendNamed(side.prefix+name, t); err != nil {
				return err
			}
		}
	}
	return WriteSafeTensors(path, all, metadata)
}
