package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts Update calls per loss.
//
// Labels:
//   - loss: name of the root loss
//   - status: "success" or "error"
type Recorder struct {
	UpdatesTotal          *prometheus.CounterVec
	UpdateDurationSeconds *prometheus.HistogramVec
}

// NewRecorder creates a Recorder registered with reg.
func NewRecorder(namespace string, reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		UpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loss",
			Name:      "updates_total",
			Help:      "Loss updates by outcome.",
		}, []string{"loss", "status"}),
		UpdateDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loss",
			Name:      "update_duration_seconds",
			Help:      "Time spent in one loss update.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"loss"}),
	}
}

// ObserveUpdate records one update of the named loss that started at
// start and returned err.
func (r *Recorder) ObserveUpdate(name string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.UpdatesTotal.WithLabelValues(name, status).Inc()
	r.UpdateDurationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
