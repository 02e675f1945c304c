// Package metrics provides metrics collection and reporting functionality.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds the crawl run metrics.
type Metrics struct {
	// RecordCount is the number of records emitted.
	RecordCount int64
	// DroppedCount is the number of records dropped for lacking identity.
	DroppedCount int64
	// PageCount is the number of pages fetched successfully.
	PageCount int64
	// FailedRequests is the number of failed page fetches.
	FailedRequests int64
	// SourceErrors is the number of sources whose first page was unreachable.
	SourceErrors int64
	// LastRecordTime is the time of the last emitted record.
	LastRecordTime time.Time
	// StartTime is when the crawl run began.
	StartTime time.Time
	// CurrentSource is the source being crawled.
	CurrentSource string
	// mu protects concurrent access to metrics.
	mu sync.Mutex
}

// NewMetrics creates a new Metrics instance with default values.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// GetStartTime returns the time when the crawl run began.
func (m *Metrics) GetStartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StartTime
}

// IncrementRecords increments the emitted record counter.
func (m *Metrics) IncrementRecords() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCount++
	m.LastRecordTime = time.Now()
}

// GetRecordCount returns the number of records emitted.
func (m *Metrics) GetRecordCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RecordCount
}

// IncrementDropped increments the dropped record counter.
func (m *Metrics) IncrementDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DroppedCount++
}

// GetDroppedCount returns the number of dropped records.
func (m *Metrics) GetDroppedCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DroppedCount
}

// IncrementPages increments the fetched page counter.
func (m *Metrics) IncrementPages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PageCount++
}

// GetPageCount returns the number of pages fetched.
func (m *Metrics) GetPageCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PageCount
}

// IncrementFailedRequests increments the failed requests counter.
func (m *Metrics) IncrementFailedRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedRequests++
}

// GetFailedRequests returns the number of failed requests.
func (m *Metrics) GetFailedRequests() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FailedRequests
}

// IncrementSourceErrors increments the source error counter.
func (m *Metrics) IncrementSourceErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceErrors++
}

// GetSourceErrors returns the number of source errors.
func (m *Metrics) GetSourceErrors() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SourceErrors
}

// GetLastRecordTime returns the time of the last emitted record.
func (m *Metrics) GetLastRecordTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastRecordTime
}

// SetCurrentSource sets the current source being crawled.
func (m *Metrics) SetCurrentSource(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentSource = source
}

// GetCurrentSource returns the current source being crawled.
func (m *Metrics) GetCurrentSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentSource
}

// Reset resets all metrics to their initial values.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCount = 0
	m.DroppedCount = 0
	m.PageCount = 0
	m.FailedRequests = 0
	m.SourceErrors = 0
	m.LastRecordTime = time.Time{}
	m.StartTime = time.Now()
	m.CurrentSource = ""
}
