package observability

import (
	"strconv"
	"sync"
	"time"
)

// counterKey buckets a request by route, verb and outcome. Outcome is
// the HTTP status for request counts and the domain error code for
// error counts.
type counterKey struct {
	path    string
	method  string
	outcome string
}

// Metrics keeps per-route request and error counters in memory. The
// console runs as a single process, so process-local counters are the
// whole story; nil receivers are tolerated so handlers can run without
// a metrics sink in tests.
type Metrics struct {
	mu       sync.Mutex
	requests map[counterKey]int64
	errors   map[counterKey]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[counterKey]int64),
		errors:   make(map[counterKey]int64),
	}
}

// RecordRequest counts a finished request under its route, method and
// status.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := counterKey{path: path, method: method, outcome: strconv.Itoa(status)}
	m.mu.Lock()
	m.requests[key]++
	m.mu.Unlock()
}

// RecordError counts a request that ended in a domain error, keyed by
// the error code so AUTH_FAILED and VALIDATION_FAILED spikes stay
// distinguishable.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := counterKey{path: path, method: method, outcome: code}
	m.mu.Lock()
	m.errors[key]++
	m.mu.Unlock()
}
