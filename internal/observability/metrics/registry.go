// Package metrics provides the in-process stats registry reported by
// the get_metrics operation, plus Prometheus mirrors for scraping.
//
// Counters are unbounded additive. Histograms retain the most recent
// 1000 samples per name; percentile reporting uses the max in place of
// high percentiles until enough samples accumulate.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// histogramCap bounds the number of retained samples per histogram.
const histogramCap = 1000

// Registry is a thread-safe counter and duration-histogram store.
// A single instance is created at process start and shared.
type Registry struct {
	mu         sync.Mutex
	counters   map[string]int64
	histograms map[string][]float64
	startedAt  time.Time
}

// NewRegistry creates an empty Registry. Uptime is reported from this
// moment.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]int64),
		histograms: make(map[string][]float64),
		startedAt:  time.Now().UTC(),
	}
}

// Increment adds one to the named counter.
func (r *Registry) Increment(name string) { r.Add(name, 1) }

// Add adds value to the named counter.
func (r *Registry) Add(name string, value int64) {
	r.mu.Lock()
	r.counters[name] += value
	r.mu.Unlock()

	mirrorCounter(name, float64(value))
}

// RecordDuration appends a duration sample (in milliseconds) to the
// named histogram, discarding the oldest sample beyond the cap.
func (r *Registry) RecordDuration(name string, d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)

	r.mu.Lock()
	samples := append(r.histograms[name], ms)
	if len(samples) > histogramCap {
		samples = samples[len(samples)-histogramCap:]
	}
	r.histograms[name] = samples
	r.mu.Unlock()

	mirrorDuration(name, d)
}

// HistogramStats summarizes one histogram's retained samples.
type HistogramStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// Stats is a point-in-time snapshot of the registry.
type Stats struct {
	UptimeSeconds float64                   `json:"uptime_seconds"`
	Counters      map[string]int64          `json:"counters"`
	Histograms    map[string]HistogramStats `json:"histograms"`
}

// Snapshot returns a copy of all counters and summarized histograms.
func (r *Registry) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Stats{
		UptimeSeconds: time.Since(r.startedAt).Seconds(),
		Counters:      make(map[string]int64, len(r.counters)),
		Histograms:    make(map[string]HistogramStats, len(r.histograms)),
	}
	for name, v := range r.counters {
		out.Counters[name] = v
	}
	for name, samples := range r.histograms {
		if len(samples) == 0 {
			continue
		}
		out.Histograms[name] = summarize(samples)
	}
	return out
}

// Counter returns the current value of a counter (0 when absent).
func (r *Registry) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

func summarize(samples []float64) HistogramStats {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	st := HistogramStats{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Avg:   sum / float64(n),
		P50:   sorted[n/2],
	}
	// Small samples report the max in place of the tail percentiles.
	if n > 20 {
		st.P95 = sorted[int(float64(n)*0.95)]
	} else {
		st.P95 = st.Max
	}
	if n > 100 {
		st.P99 = sorted[int(float64(n)*0.99)]
	} else {
		st.P99 = st.Max
	}
	return st
}
