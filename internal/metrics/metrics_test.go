package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lossmix/internal/backend/cpu"
	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/metrics"
	"github.com/born-ml/lossmix/internal/tensor"
)

func detector(backend tensor.Backend) *loss.Composite {
	return loss.NewComposite("detector", loss.SplitColumns(),
		loss.NewMSE(backend, loss.WithName("box")),
		loss.NewWeighted(loss.NewL1(backend, loss.WithName("offset")), 2),
	)
}

func TestCollector(t *testing.T) {
	backend := cpu.New()
	d := detector(backend)
	labels := tensor.NewList(tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2}, backend))
	preds := tensor.NewList(tensor.MustFromSlice([]float64{0.5, 0.25}, tensor.Shape{1, 2}, backend))
	require.NoError(t, d.Update(labels, preds))

	c := metrics.NewCollector("lossmix", d)
	want := `
# HELP lossmix_loss_value Running value of a loss since its last reset.
# TYPE lossmix_loss_value gauge
lossmix_loss_value{index="0",kind="composite",path="detector"} 0.75
lossmix_loss_value{index="0.0",kind="leaf",path="detector/box"} 0.25
lossmix_loss_value{index="0.1",kind="leaf",path="detector/offset"} 0.5
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want), "lossmix_loss_value"))
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	d.Reset()
	want = `
# HELP lossmix_loss_accumulating 1 if the loss has been updated since its last reset.
# TYPE lossmix_loss_accumulating gauge
lossmix_loss_accumulating{index="0",kind="composite",path="detector"} 0
lossmix_loss_accumulating{index="0.0",kind="leaf",path="detector/box"} 0
lossmix_loss_accumulating{index="0.1",kind="leaf",path="detector/offset"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want), "lossmix_loss_accumulating"))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector("lossmix", detector(cpu.New()))))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}

func TestCollector_SameNamedComponents(t *testing.T) {
	backend := cpu.New()
	heads := loss.NewComposite("heads", nil, loss.NewMSE(backend), loss.NewMSE(backend))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector("lossmix", heads)))
	_, err := reg.Gather()
	require.NoError(t, err)

	want := `
# HELP lossmix_loss_value Running value of a loss since its last reset.
# TYPE lossmix_loss_value gauge
lossmix_loss_value{index="0",kind="composite",path="heads"} 0
lossmix_loss_value{index="0.0",kind="leaf",path="heads/mse"} 0
lossmix_loss_value{index="0.1",kind="leaf",path="heads/mse"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "lossmix_loss_value"))
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder("lossmix", reg)

	r.ObserveUpdate("detector", time.Now(), nil)
	r.ObserveUpdate("detector", time.Now(), nil)
	r.ObserveUpdate("detector", time.Now(), errors.New("shape"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.UpdatesTotal.WithLabelValues("detector", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.UpdatesTotal.WithLabelValues("detector", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.UpdateDurationSeconds))
}
