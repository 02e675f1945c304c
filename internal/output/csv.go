// Package output provides the record output sinks: the CSV feed written
// during a crawl and the golden-record merge across past feeds.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonesrussell/dircrawl/internal/record"
)

// Sink receives finalized records. Writes are append-only; sinks must be
// safe for concurrent use.
type Sink interface {
	// Write appends one record.
	Write(rec *record.Record) error
	// Close flushes and releases the sink.
	Close() error
}

// CSVSink writes records as CSV rows with a fixed column order identical
// across runs.
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var _ Sink = (*CSVSink)(nil)

// NewCSVSink creates the output file (and any missing parent directories)
// and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(record.Columns()); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush CSV header: %w", err)
	}

	return &CSVSink{file: file, writer: writer}, nil
}

// Write appends one record. Serialized with a mutex: the sink is the only
// resource shared across concurrently crawled sources.
func (s *CSVSink) Write(rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(rec.Row()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the output file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// MemorySink collects records in memory. Used in tests and by the golden
// merge.
type MemorySink struct {
	mu      sync.Mutex
	records []*record.Record
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends one record.
func (s *MemorySink) Write(rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Close is a no-op.
func (s *MemorySink) Close() error {
	return nil
}

// Records returns the collected records in write order.
func (s *MemorySink) Records() []*record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*record.Record, len(s.records))
	copy(out, s.records)
	return out
}
