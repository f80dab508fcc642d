package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	dispatches     *prom.CounterVec
	reduceDuration *prom.HistogramVec
	notifications  *prom.CounterVec
	pruned         prom.Counter
	subscriptions  prom.Gauge
	taskPanics     *prom.CounterVec
	queueDepth     *prom.GaugeVec
}

// NewPrometheusRecorder constructs the store metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		dispatches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "statestore",
			Name:      "dispatches_total",
			Help:      "Dispatch requests by state type and outcome",
		}, []string{"state_type", "outcome"}),
		reduceDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "statestore",
			Name:      "reduce_duration_seconds",
			Help:      "Time spent running reducers on the mutation queue",
			Buckets:   prom.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"state_type"}),
		notifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "statestore",
			Name:      "notifications_total",
			Help:      "Subscriber notifications submitted to executors",
		}, []string{"state_type"}),
		pruned: prom.NewCounter(prom.CounterOpts{
			Namespace: "statestore",
			Name:      "subscriptions_pruned_total",
			Help:      "Subscriptions removed because their owner was gone",
		}),
		subscriptions: prom.NewGauge(prom.GaugeOpts{
			Namespace: "statestore",
			Name:      "subscriptions",
			Help:      "Registered subscriptions after the last bookkeeping change",
		}),
		taskPanics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "statestore",
			Name:      "queue_task_panics_total",
			Help:      "Recovered task panics by serial queue",
		}, []string{"queue"}),
		queueDepth: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "statestore",
			Name:      "queue_depth",
			Help:      "Tasks waiting in each serial queue",
		}, []string{"queue"}),
	}
	reg.MustRegister(pr.dispatches, pr.reduceDuration, pr.notifications, pr.pruned, pr.subscriptions, pr.taskPanics, pr.queueDepth)
	return pr
}

func (p *PrometheusRecorder) IncDispatch(stateType string, outcome DispatchOutcome) {
	if p == nil {
		return
	}
	p.dispatches.WithLabelValues(stateType, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveReduceDuration(stateType string, d time.Duration) {
	if p == nil {
		return
	}
	p.reduceDuration.WithLabelValues(stateType).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncNotification(stateType string) {
	if p == nil {
		return
	}
	p.notifications.WithLabelValues(stateType).Inc()
}

func (p *PrometheusRecorder) IncPruned(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pruned.Add(float64(n))
}

func (p *PrometheusRecorder) SetSubscriptions(n int) {
	if p == nil {
		return
	}
	p.subscriptions.Set(float64(n))
}

func (p *PrometheusRecorder) IncTaskPanic(queue string) {
	if p == nil {
		return
	}
	p.taskPanics.WithLabelValues(queue).Inc()
}

func (p *PrometheusRecorder) SetQueueDepth(queue string, n int) {
	if p == nil {
		return
	}
	p.queueDepth.WithLabelValues(queue).Set(float64(n))
}
