package upstream

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters for calls made to one third-party API.
type counters struct {
	calls   int64
	errors  int64
	latency int64 // nanoseconds
}

// Snapshot is a point-in-time copy of one upstream's counters.
type Snapshot struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	AvgLatencyMillis float64 `json:"avg_latency_ms"`
	ErrorRatePercent float64 `json:"error_rate_pct"`
}

var registry sync.Map // name -> *counters

func get(name string) *counters {
	if v, ok := registry.Load(name); ok {
		return v.(*counters)
	}
	v, _ := registry.LoadOrStore(name, &counters{})
	return v.(*counters)
}

// Record counts one call to the named upstream.
func Record(name string, duration time.Duration, err error) {
	c := get(name)
	atomic.AddInt64(&c.calls, 1)
	atomic.AddInt64(&c.latency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
	}
}

// Snapshots returns the counters of every upstream seen so far.
func Snapshots() map[string]Snapshot {
	out := make(map[string]Snapshot)
	registry.Range(func(k, v any) bool {
		c := v.(*counters)
		calls := atomic.LoadInt64(&c.calls)
		errs := atomic.LoadInt64(&c.errors)
		lat := atomic.LoadInt64(&c.latency)

		s := Snapshot{Calls: calls, Errors: errs}
		if calls > 0 {
			s.AvgLatencyMillis = float64(lat) / float64(calls) / 1e6
			s.ErrorRatePercent = float64(errs) / float64(calls) * 100
		}
		out[k.(string)] = s
		return true
	})
	return out
}

// Reset clears all counters (useful for testing)
func Reset() {
	registry.Range(func(k, _ any) bool {
		registry.Delete(k)
		return true
	})
}
