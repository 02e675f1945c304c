package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/dircrawl/internal/record"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "Acme Plumbing", "Acme Plumbing"},
		{"leading and trailing", "  Acme Plumbing  ", "Acme Plumbing"},
		{"internal runs", "Acme \t\n  Plumbing", "Acme Plumbing"},
		{"newlines", "123 Main St\nSuite 4", "123 Main St Suite 4"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, record.CleanText(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "info@example.ca", "info@example.ca"},
		{"mailto prefix", "mailto:info@example.ca", "info@example.ca"},
		{"mailto uppercase", "MAILTO:info@example.ca", "info@example.ca"},
		{"query suffix", "mailto:info@example.ca?subject=Quote", "info@example.ca"},
		{"surrounding whitespace", "  info@example.ca ", "info@example.ca"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, record.NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "555-123-4567", "555-123-4567"},
		{"tel prefix", "tel:555-123-4567", "555-123-4567"},
		{"tel uppercase", "TEL:+15551234567", "+15551234567"},
		{"internal whitespace", "(555) 123 4567", "(555)1234567"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, record.NormalizePhone(tt.input))
		})
	}
}

func TestCanonicalPhone(t *testing.T) {
	t.Parallel()

	// Formatting variants of the same number reduce to one key.
	variants := []string{
		"555-123-4567",
		"(555) 123-4567",
		"555.123.4567",
		"tel:555 123 4567",
	}
	want := record.CanonicalPhone(variants[0])
	assert.Equal(t, "5551234567", want)
	for _, v := range variants[1:] {
		assert.Equal(t, want, record.CanonicalPhone(v), "variant %q", v)
	}

	assert.NotEqual(t, want, record.CanonicalPhone("+15551234567"))
}

func TestRecord_HasIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  record.Record
		want bool
	}{
		{"business name", record.Record{BusinessName: "Acme"}, true},
		{"phone", record.Record{Phone: "5551234567"}, true},
		{"email", record.Record{Email: "a@b.ca"}, true},
		{"website", record.Record{Website: "https://acme.ca"}, true},
		{"address only", record.Record{Address: "123 Main St", City: "Sudbury"}, false},
		{"empty", record.Record{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rec.HasIdentity())
		})
	}
}

func TestRecord_Row(t *testing.T) {
	t.Parallel()

	rec := record.Record{
		Source:       "example-dir",
		Category:     "plumbers",
		Region:       "ontario",
		BusinessName: "Acme Plumbing",
		Phone:        "5551234567",
		Email:        "info@acme.ca",
		Website:      "https://acme.ca",
		Address:      "123 Main St",
		City:         "Sudbury",
		Province:     "ON",
		PostalCode:   "P3A 1A1",
		ListingURL:   "https://dir.example.com/plumbers",
		DetailURL:    "https://dir.example.com/listing/acme",
	}

	row := rec.Row()
	cols := record.Columns()
	assert.Len(t, row, len(cols))
	assert.Equal(t, "source", cols[0])
	assert.Equal(t, "example-dir", row[0])
	assert.Equal(t, "detail_url", cols[len(cols)-1])
	assert.Equal(t, "https://dir.example.com/listing/acme", row[len(row)-1])
}
