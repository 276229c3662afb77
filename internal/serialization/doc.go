// Package serialization reads and writes batches of labels and predictions
// in the SafeTensors format.
//
// SafeTensors is the HuggingFace tensor container:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header]
//	[tensor data: raw little-endian bytes]
//
// The header maps every tensor name to its dtype, shape and byte range in
// the data section, plus an optional "__metadata__" string map. F32, F64,
// I32 and I64 tensors are read; all of them become float64 tensors.
//
// A labeled batch keeps both sides in one file, with every label tensor
// named "labels.<name>" and every prediction tensor "predictions.<name>":
//
//	labels, predictions, err := serialization.ReadLabeledBatch("step-42.safetensors", backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	value, err := detector.Evaluate(labels, predictions)
package serialization
