package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/dircrawl/internal/logger"
)

// State manages the runtime state of a crawl run: the run clock the
// timeout is measured against, the record counter the item cap is
// measured against, and the source/page currently being worked.
type State struct {
	mu            sync.RWMutex
	isRunning     bool
	startTime     time.Time
	currentSource string
	currentURL    string
	recordCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	logger        logger.Interface
}

// NewState creates a new crawl state.
func NewState(log logger.Interface) *State {
	return &State{
		logger: log,
	}
}

// IsRunning returns whether a crawl run is active.
func (s *State) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// StartTime returns when the run started.
func (s *State) StartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startTime
}

// CurrentSource returns the source currently being crawled.
func (s *State) CurrentSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSource
}

// SetCurrentSource records the source currently being crawled.
func (s *State) SetCurrentSource(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSource = name
}

// CurrentURL returns the page currently being fetched.
func (s *State) CurrentURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentURL
}

// SetCurrentURL records the page currently being fetched.
func (s *State) SetCurrentURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentURL = url
}

// RecordCount returns the number of records emitted so far in the run.
func (s *State) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordCount
}

// IncrementRecords increments the emitted record counter and returns the
// new count.
func (s *State) IncrementRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCount++
	return s.recordCount
}

// Elapsed returns the time since the run started.
func (s *State) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Context returns the run's context.
func (s *State) Context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// Cancel cancels the run's context.
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Start initializes the state for a new run.
func (s *State) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = true
	s.startTime = time.Now()
	s.recordCount = 0
	s.currentSource = ""
	s.currentURL = ""
	s.ctx, s.cancel = context.WithCancel(ctx)
}

// Stop cleans up the state when the run ends.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.isRunning = false
	s.currentSource = ""
	s.currentURL = ""
	s.ctx = nil

	s.logger.Info("Crawl run stopped",
		"records", s.recordCount,
		"duration", time.Since(s.startTime),
	)
}
