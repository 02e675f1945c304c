package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/dircrawl/internal/record"
	"github.com/jonesrussell/dircrawl/internal/sources"
)

const jsonldPage = `
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "LocalBusiness",
  "name": "Acme Plumbing",
  "telephone": "555-123-4567",
  "email": "info@acme.ca",
  "url": "https://acme.ca",
  "address": {
    "@type": "PostalAddress",
    "streetAddress": "123 Main St",
    "addressLocality": "Sudbury",
    "addressRegion": "ON",
    "postalCode": "P3A 1A1"
  }
}
</script>
</head><body></body></html>`

const jsonldGraphPage = `
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "name": "The Directory"},
    {"@type": "ProfessionalService", "name": "Beta Electric", "telephone": "555-222-3333"},
    {"@type": ["Thing", "HomeAndConstructionBusiness"], "name": "Gamma Roofing"}
  ]
}
</script>
<script type="application/ld+json">not json at all</script>
<script type="application/ld+json">
{"@type": "Organization", "legalName": "Delta Holdings Inc"}
</script>
</head><body></body></html>`

func TestJSONLDBusinesses(t *testing.T) {
	t.Parallel()

	t.Run("single business object", func(t *testing.T) {
		t.Parallel()

		objects := record.JSONLDBusinesses(selectionFrom(t, jsonldPage))
		require.Len(t, objects, 1)

		fields := objects[0]
		assert.Equal(t, "Acme Plumbing", fields[sources.FieldBusinessName])
		assert.Equal(t, "555-123-4567", fields[sources.FieldPhone])
		assert.Equal(t, "info@acme.ca", fields[sources.FieldEmail])
		assert.Equal(t, "https://acme.ca", fields[sources.FieldWebsite])
		assert.Equal(t, "123 Main St", fields[sources.FieldAddress])
		assert.Equal(t, "Sudbury", fields[sources.FieldCity])
		assert.Equal(t, "ON", fields[sources.FieldProvince])
		assert.Equal(t, "P3A 1A1", fields[sources.FieldPostalCode])
	})

	t.Run("graph unwrap skips non-business types and bad json", func(t *testing.T) {
		t.Parallel()

		objects := record.JSONLDBusinesses(selectionFrom(t, jsonldGraphPage))
		require.Len(t, objects, 3)

		assert.Equal(t, "Beta Electric", objects[0][sources.FieldBusinessName])
		assert.Equal(t, "Gamma Roofing", objects[1][sources.FieldBusinessName])
		assert.Equal(t, "Delta Holdings Inc", objects[2][sources.FieldBusinessName])
	})

	t.Run("no jsonld blocks", func(t *testing.T) {
		t.Parallel()

		objects := record.JSONLDBusinesses(selectionFrom(t, `<p>plain page</p>`))
		assert.Empty(t, objects)
	})
}

func TestEnrichFromJSONLD(t *testing.T) {
	t.Parallel()

	t.Run("fills absent fields only", func(t *testing.T) {
		t.Parallel()

		rec := &record.Record{BusinessName: "Acme Plumbing Ltd", Phone: ""}
		record.EnrichFromJSONLD(rec, selectionFrom(t, jsonldPage))

		assert.Equal(t, "Acme Plumbing Ltd", rec.BusinessName, "present field kept")
		assert.Equal(t, "555-123-4567", rec.Phone)
		assert.Equal(t, "info@acme.ca", rec.Email)
		assert.Equal(t, "Sudbury", rec.City)
	})

	t.Run("no-op without business objects", func(t *testing.T) {
		t.Parallel()

		rec := &record.Record{BusinessName: "Acme"}
		record.EnrichFromJSONLD(rec, selectionFrom(t, `<p>nothing</p>`))

		assert.Equal(t, "Acme", rec.BusinessName)
		assert.Empty(t, rec.Phone)
	})
}
