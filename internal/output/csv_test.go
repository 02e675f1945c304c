package output_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/dircrawl/internal/output"
	"github.com/jonesrussell/dircrawl/internal/record"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVSink(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv")
		sink, err := output.NewCSVSink(path)
		require.NoError(t, err)

		require.NoError(t, sink.Write(&record.Record{
			Source:       "example-dir",
			BusinessName: "Acme Plumbing",
			Phone:        "5551234567",
		}))
		require.NoError(t, sink.Write(&record.Record{
			Source:       "example-dir",
			BusinessName: "Beta Electric",
		}))
		require.NoError(t, sink.Close())

		rows := readCSV(t, path)
		require.Len(t, rows, 3)
		assert.Equal(t, record.Columns(), rows[0])
		assert.Equal(t, "Acme Plumbing", rows[1][3])
		assert.Equal(t, "5551234567", rows[1][4])
		assert.Equal(t, "Beta Electric", rows[2][3])
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
		sink, err := output.NewCSVSink(path)
		require.NoError(t, err)
		require.NoError(t, sink.Close())

		rows := readCSV(t, path)
		require.Len(t, rows, 1)
		assert.Equal(t, record.Columns(), rows[0])
	})

	t.Run("rows survive without close", func(t *testing.T) {
		t.Parallel()

		// Writes flush eagerly so an interrupted run keeps its records.
		path := filepath.Join(t.TempDir(), "out.csv")
		sink, err := output.NewCSVSink(path)
		require.NoError(t, err)
		t.Cleanup(func() { sink.Close() })

		require.NoError(t, sink.Write(&record.Record{BusinessName: "Acme"}))

		rows := readCSV(t, path)
		require.Len(t, rows, 2)
	})
}

func TestMemorySink(t *testing.T) {
	t.Parallel()

	sink := output.NewMemorySink()
	require.NoError(t, sink.Write(&record.Record{BusinessName: "Acme"}))
	require.NoError(t, sink.Write(&record.Record{BusinessName: "Beta"}))
	require.NoError(t, sink.Close())

	recs := sink.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "Acme", recs[0].BusinessName)
	assert.Equal(t, "Beta", recs[1].BusinessName)
}
