package observability

import (
	"sort"
	"sync"
)

// Metrics provides basic in-memory counters for booking operations.
type Metrics struct {
	mu             sync.Mutex
	operationCount map[string]int64
	errorCount     map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		operationCount: make(map[string]int64),
		errorCount:     make(map[string]int64),
	}
}

// RecordOperation increments the counter for a completed operation.
func (m *Metrics) RecordOperation(operation string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationCount[operation]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	key := operation + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Operations returns the count recorded for operation.
func (m *Metrics) Operations(operation string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operationCount[operation]
}

// Errors returns the count recorded for operation and error code.
func (m *Metrics) Errors(operation, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[operation+"|"+code]
}

// Snapshot copies all counters, keyed by operation (and "operation|code" for errors).
func (m *Metrics) Snapshot() (operations, errors map[string]int64) {
	operations = map[string]int64{}
	errors = map[string]int64{}
	if m == nil {
		return operations, errors
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.operationCount {
		operations[k] = v
	}
	for k, v := range m.errorCount {
		errors[k] = v
	}
	return operations, errors
}

// Keys returns the sorted operation names seen so far.
func (m *Metrics) Keys() []string {
	ops, _ := m.Snapshot()
	keys := make([]string, 0, len(ops))
	for k := range ops {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
