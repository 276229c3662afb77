// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides composable loss functions.
//
// Every Loss computes a forward value (Evaluate), keeps a running statistic
// (Update, Value, Reset) and can produce an independent copy of itself
// (Duplicate). A Composite is a Loss made of other losses: a Router decides
// which labels and predictions each component sees, and the composite adds
// the results.
//
// # Basic Usage
//
//	backend := cpu.New()
//	detector := loss.NewComposite("detector", loss.SplitColumns(),
//	    loss.NewMSE(backend, loss.WithName("box")),
//	    loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
//	)
//
//	for _, batch := range batches {
//	    if err := detector.Update(batch.Labels, batch.Predictions); err != nil {
//	        return err
//	    }
//	}
//	fmt.Printf("epoch loss: %.4f\n", detector.Value())
//	detector.Reset()
//
// # Replicas
//
// Duplicate gives each data-parallel worker its own statistic:
//
//	replica, err := detector.Duplicate()
//
// Composites do no locking. Serialize Update and Reset on one instance.
package loss
