package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonesrussell/dircrawl/internal/logger"
	"github.com/jonesrussell/dircrawl/internal/record"
)

// GoldenFileName is the unified output of the golden merge.
const GoldenFileName = "providers-golden.csv"

// feedGlob matches the per-run CSV feeds in an output directory.
const feedGlob = "providers-*.csv"

// GoldenMerger builds a deduplicated golden CSV from past run feeds.
// Rows without a phone number are dropped; rows sharing a normalized
// phone collapse to one, with newer feeds taking precedence.
type GoldenMerger struct {
	logger logger.Interface
}

// NewGoldenMerger creates a golden merger.
func NewGoldenMerger(log logger.Interface) *GoldenMerger {
	return &GoldenMerger{logger: log}
}

// Merge scans the directory's feeds and writes the golden CSV into the
// same directory. It returns the golden file path and the number of rows
// written.
func (g *GoldenMerger) Merge(dir string) (string, int, error) {
	feeds, err := g.listFeeds(dir)
	if err != nil {
		return "", 0, err
	}
	if len(feeds) == 0 {
		return "", 0, fmt.Errorf("no feed files matching %q in %s", feedGlob, dir)
	}

	byPhone := make(map[string][]string)
	var order []string
	for _, feed := range feeds {
		rows, readErr := g.readFeed(feed)
		if readErr != nil {
			g.logger.Warn("Skipping unreadable feed", "file", feed, "error", readErr)
			continue
		}
		for _, row := range rows {
			key := record.CanonicalPhone(row[phoneColumn()])
			if key == "" {
				continue
			}
			if _, seen := byPhone[key]; !seen {
				order = append(order, key)
			}
			byPhone[key] = row
		}
	}

	goldenPath := filepath.Join(dir, GoldenFileName)
	if err := g.writeGolden(goldenPath, order, byPhone); err != nil {
		return "", 0, err
	}

	g.logger.Info("Golden merge complete",
		"feeds", len(feeds),
		"rows", len(order),
		"file", goldenPath,
	)
	return goldenPath, len(order), nil
}

// listFeeds returns the feed files sorted oldest-first by modification
// time, so that later files overwrite earlier ones in the merge.
func (g *GoldenMerger) listFeeds(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, feedGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan output directory: %w", err)
	}

	feeds := matches[:0]
	for _, m := range matches {
		if filepath.Base(m) != GoldenFileName {
			feeds = append(feeds, m)
		}
	}

	sort.Slice(feeds, func(i, j int) bool {
		fi, errI := os.Stat(feeds[i])
		fj, errJ := os.Stat(feeds[j])
		if errI != nil || errJ != nil {
			return feeds[i] < feeds[j]
		}
		if fi.ModTime().Equal(fj.ModTime()) {
			return feeds[i] < feeds[j]
		}
		return fi.ModTime().Before(fj.ModTime())
	})
	return feeds, nil
}

// readFeed reads one feed's data rows, reordered to the canonical column
// layout using the feed's own header.
func (g *GoldenMerger) readFeed(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, nil
	}

	colIndex := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		colIndex[name] = i
	}

	columns := record.Columns()
	rows := make([][]string, 0, len(all)-1)
	for _, raw := range all[1:] {
		row := make([]string, len(columns))
		for i, name := range columns {
			if idx, ok := colIndex[name]; ok && idx < len(raw) {
				row[i] = raw[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeGolden writes the merged rows in first-seen phone order.
func (g *GoldenMerger) writeGolden(path string, order []string, byPhone map[string][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create golden file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(record.Columns()); err != nil {
		return fmt.Errorf("failed to write golden header: %w", err)
	}
	for _, key := range order {
		if err := writer.Write(byPhone[key]); err != nil {
			return fmt.Errorf("failed to write golden row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// phoneColumn returns the index of the phone column in the canonical layout.
func phoneColumn() int {
	for i, name := range record.Columns() {
		if name == "phone" {
			return i
		}
	}
	return 0
}
