package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes
const (
	OutcomeCommitted = "committed"
	OutcomeDryRun    = "dry_run"
	OutcomeFailed    = "failed"
)

// Recorder receives run instrumentation
type Recorder interface {
	RunFinished(outcome string, duration time.Duration)
	SlotsFilled(count int)
	RoleAssigned(role string, count int)
	RepairFinished(passes, swaps, unresolved int)
}

// Nop discards every observation
type Nop struct{}

func (Nop) RunFinished(string, time.Duration) {}
func (Nop) SlotsFilled(int)                   {}
func (Nop) RoleAssigned(string, int)          {}
func (Nop) RepairFinished(int, int, int)      {}

var _ Recorder = Nop{}

// Prometheus is a Recorder backed by its own registry
type Prometheus struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	slots        prometheus.Counter
	assignments  *prometheus.CounterVec
	repairPasses prometheus.Gauge
	repairSwaps  prometheus.Counter
	unresolved   prometheus.Gauge
	lastRunTime  prometheus.Gauge
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the roster collectors under namespace (default "roster")
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "roster"
	}

	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Generation runs by outcome (committed, dry_run, failed).",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a generation run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		slots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_filled_total",
			Help:      "Duty slots filled by the selector.",
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Role positions assigned, by role.",
		}, []string{"role"}),
		repairPasses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "repair",
			Name:      "passes",
			Help:      "Repair passes used by the last run.",
		}),
		repairSwaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repair",
			Name:      "swaps_total",
			Help:      "Swaps committed by the repair engine.",
		}),
		unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "repair",
			Name:      "unresolved_conflicts",
			Help:      "Conflicts left after the last run.",
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	p.registry.MustRegister(
		p.runs,
		p.runDuration,
		p.slots,
		p.assignments,
		p.repairPasses,
		p.repairSwaps,
		p.unresolved,
		p.lastRunTime,
	)

	return p
}

// Registry exposes the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) RunFinished(outcome string, duration time.Duration) {
	p.runs.WithLabelValues(outcome).Inc()
	p.runDuration.Observe(duration.Seconds())
	p.lastRunTime.SetToCurrentTime()
}

func (p *Prometheus) SlotsFilled(count int) {
	p.slots.Add(float64(count))
}

func (p *Prometheus) RoleAssigned(role string, count int) {
	p.assignments.WithLabelValues(role).Add(float64(count))
}

func (p *Prometheus) RepairFinished(passes, swaps, unresolved int) {
	p.repairPasses.Set(float64(passes))
	p.repairSwaps.Add(float64(swaps))
	p.unresolved.Set(float64(unresolved))
}

// WriteTextfile writes the current values for the node exporter textfile collector
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
