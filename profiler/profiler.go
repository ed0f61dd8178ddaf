// Package profiler - Per-stage timing and metric tracking for frame
// transforms.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MetricTracker tracks statistics for a custom metric.
type MetricTracker struct {
	name  string
	sum   float64
	min   float64
	max   float64
	count int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// OperationStats is a snapshot of one tracked operation.
type OperationStats struct {
	Name  string
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Avg returns the mean duration, or 0 when nothing was recorded.
func (s OperationStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// MetricStats is a snapshot of one custom metric.
type MetricStats struct {
	Name  string
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Avg returns the mean value, or 0 when nothing was recorded.
func (s MetricStats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// StageProfiler accumulates durations per named stage and values per named
// metric. It is safe for concurrent use.
//
// StageProfiler satisfies the transform package's Observer interface, so it
// can be attached to a transform to time each stage of every frame.
type StageProfiler struct {
	mu             sync.RWMutex
	startTime      time.Time
	operationTimes map[string]*TimeTracker
	customMetrics  map[string]*MetricTracker
}

// NewStageProfiler creates an empty profiler.
func NewStageProfiler() *StageProfiler {
	return &StageProfiler{
		startTime:      time.Now(),
		operationTimes: make(map[string]*TimeTracker),
		customMetrics:  make(map[string]*MetricTracker),
	}
}

// ObserveStage records one completed run of a stage.
func (p *StageProfiler) ObserveStage(stage string, d time.Duration) {
	p.recordOperationTime(stage, d)
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - A function to call when the operation completes.
func (p *StageProfiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.recordOperationTime(name, time.Since(start))
	}
}

// RecordMetric records a custom metric value.
//
// Arguments:
//   - name: The name of the metric.
//   - value: The metric value to record.
func (p *StageProfiler) RecordMetric(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.customMetrics[name]
	if !exists {
		tracker = &MetricTracker{name: name, min: value, max: value}
		p.customMetrics[name] = tracker
	}
	tracker.sum += value
	tracker.count++
	tracker.min = min(tracker.min, value)
	tracker.max = max(tracker.max, value)
}

// recordOperationTime records the completion time of an operation.
func (p *StageProfiler) recordOperationTime(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{name: name, minTime: duration, maxTime: duration}
		p.operationTimes[name] = tracker
	}
	tracker.totalTime += duration
	tracker.count++
	tracker.minTime = min(tracker.minTime, duration)
	tracker.maxTime = max(tracker.maxTime, duration)
}

// Operations returns a snapshot of every operation, sorted by name.
func (p *StageProfiler) Operations() []OperationStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]OperationStats, 0, len(p.operationTimes))
	for _, t := range p.operationTimes {
		out = append(out, OperationStats{
			Name:  t.name,
			Count: t.count,
			Total: t.totalTime,
			Min:   t.minTime,
			Max:   t.maxTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metrics returns a snapshot of every custom metric, sorted by name.
func (p *StageProfiler) Metrics() []MetricStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]MetricStats, 0, len(p.customMetrics))
	for _, m := range p.customMetrics {
		out = append(out, MetricStats{Name: m.name, Count: m.count, Sum: m.sum, Min: m.min, Max: m.max})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs one line per operation and metric, plus the uptime and cgo
// call count.
func (p *StageProfiler) Report(log logrus.FieldLogger) {
	p.mu.RLock()
	uptime := time.Since(p.startTime)
	p.mu.RUnlock()

	log.WithFields(logrus.Fields{
		"uptime":     uptime.Truncate(time.Millisecond),
		"goroutines": runtime.NumGoroutine(),
		"cgo_calls":  runtime.NumCgoCall(),
	}).Info("profiler report")

	for _, op := range p.Operations() {
		log.WithFields(logrus.Fields{
			"operation": op.Name,
			"count":     op.Count,
			"avg":       op.Avg().Truncate(time.Microsecond),
			"min":       op.Min.Truncate(time.Microsecond),
			"max":       op.Max.Truncate(time.Microsecond),
		}).Info("operation timing")
	}
	for _, m := range p.Metrics() {
		log.WithFields(logrus.Fields{
			"metric": m.Name,
			"count":  m.Count,
			"avg":    m.Avg(),
			"min":    m.Min,
			"max":    m.Max,
		}).Info("metric")
	}
}
