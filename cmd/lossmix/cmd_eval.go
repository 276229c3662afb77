package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/born-ml/lossmix/internal/backend/cpu"
	"github.com/born-ml/lossmix/internal/config"
	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/metrics"
	"github.com/born-ml/lossmix/internal/replica"
	"github.com/born-ml/lossmix/internal/serialization"
	"github.com/born-ml/lossmix/internal/tensor"
)

const metricsNamespace = "lossmix"

var errReplicaBatches = errors.New("need exactly one batch per replica")

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Update a loss with labeled SafeTensors batches and print its values",
		Long: `Builds the loss described by --config, feeds it every --batch in order
and prints the running value of each node together with the forward value
of the last batch.

Batch files hold label tensors named "labels.<name>" and prediction tensors
named "predictions.<name>".

With --replicas N the loss is duplicated N times and batch i goes to
replica i; exactly N batches are required.`,
		Args: cobra.NoArgs,
		RunE: EvalHandler,
	}
	cmd.Flags().StringP("config", "c", "", "Loss config (YAML)")
	cmd.Flags().StringSliceP("batch", "b", nil, "Labeled batch file (repeatable)")
	cmd.Flags().Int("replicas", 1, "Number of independent replicas")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}

// EvalHandler runs the eval command.
func EvalHandler(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd)
	configPath, _ := cmd.Flags().GetString("config")
	batchPaths, _ := cmd.Flags().GetStringSlice("batch")
	replicas, _ := cmd.Flags().GetInt("replicas")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	backend := cpu.New()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	root, err := config.NewBuilder(backend, config.WithLogger(logger)).Build(cfg)
	if err != nil {
		return err
	}

	batches := make([]replica.Batch, len(batchPaths))
	for i, path := range batchPaths {
		labels, predictions, err := serialization.ReadLabeledBatch(path, backend)
		if err != nil {
			return err
		}
		logger.Debug("batch loaded", "path", path, "labels", labels, "predictions", predictions)
		batches[i] = replica.Batch{Labels: labels, Predictions: predictions}
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(metricsNamespace, reg)

	if replicas > 1 {
		err = evalReplicas(cmd, root, batches, replicas, reg, logger)
	} else {
		err = evalSingle(cmd, root, batches, batchPaths, recorder, reg)
	}
	if err != nil {
		return err
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written", "path", metricsFile)
	}
	return nil
}

func evalSingle(cmd *cobra.Command, root loss.Loss, batches []replica.Batch, paths []string, recorder *metrics.Recorder, reg *prometheus.Registry) error {
	if err := reg.Register(metrics.NewCollector(metricsNamespace, root)); err != nil {
		return err
	}

	var last *tensor.Tensor
	for i, b := range batches {
		v, err := root.Evaluate(b.Labels, b.Predictions)
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
		last = v

		start := time.Now()
		err = root.Update(b.Labels, b.Predictions)
		recorder.ObserveUpdate(root.Name(), start, err)
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
	}

	table := newTable(cmd.OutOrStdout(), "PATH", "KIND", "VALUE")
	err := loss.Walk(root, func(n loss.Node) error {
		kind := metrics.KindLeaf
		if !n.IsLeaf() {
			kind = metrics.KindComposite
		}
		table.Append([]string{n.PathString(), kind, formatValue(n.Loss.Value())})
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()

	if last != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nlast batch: %s\n", last)
	}
	return nil
}

func evalReplicas(cmd *cobra.Command, root loss.Loss, batches []replica.Batch, n int, reg *prometheus.Registry, logger *slog.Logger) error {
	if len(batches) != n {
		return fmt.Errorf("%w: %d replicas, %d batches", errReplicaBatches, n, len(batches))
	}

	group, err := replica.New(root, n, replica.WithLogger(logger))
	if err != nil {
		return err
	}
	for i := 0; i < group.Len(); i++ {
		wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"replica": strconv.Itoa(i)}, reg)
		if err := wrapped.Register(metrics.NewCollector(metricsNamespace, group.Replica(i))); err != nil {
			return err
		}
	}

	if err := group.Update(cmd.Context(), batches); err != nil {
		return err
	}

	table := newTable(cmd.OutOrStdout(), "REPLICA", "VALUE")
	for i, v := range group.Values() {
		table.Append([]string{strconv.Itoa(i), formatValue(v)})
	}
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "\nmean: %s\n", formatValue(group.Mean()))
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
