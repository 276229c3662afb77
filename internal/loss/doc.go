// Package loss implements losses that can be combined into one training
// objective.
//
// Every loss, leaf or composite, offers the same capability set (see Loss):
// a pure forward value (Evaluate), a running statistic advanced by Update,
// cleared by Reset and read by Value, and Duplicate for building independent
// replicas. A Composite holds an ordered list of component losses plus a
// Router deciding which slice of the global labels and predictions each
// component sees; it is itself a Loss, so composites nest.
//
//	backend := cpu.New()
//	detector := loss.NewComposite("detector", loss.SplitColumns(),
//	    loss.NewMSE(backend, loss.WithName("box")),
//	    loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
//	)
//	value, err := detector.Evaluate(labels, predictions) // differentiable scalar
//	err = detector.Update(labels, predictions)           // running statistic
//	fmt.Println(detector.Value())
package loss
