// Package record provides the contact record model and the builder that
// merges listing- and detail-page extractions into finalized records.
package record

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jonesrussell/dircrawl/internal/sources"
)

// whitespaceRe collapses internal runs of whitespace.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Record is one finalized business contact entry. Immutable after
// creation; its lifecycle ends on write to the output sink.
type Record struct {
	// ID identifies the record in logs. Not exported to CSV.
	ID string

	Source   string
	Category string
	Region   string

	BusinessName string
	Phone        string
	Email        string
	Website      string
	Address      string
	City         string
	Province     string
	PostalCode   string

	ListingURL string
	DetailURL  string
}

// Columns returns the CSV column names in their fixed output order.
// The order is identical across runs.
func Columns() []string {
	return []string{
		"source",
		"category",
		"region",
		"business_name",
		"phone",
		"email",
		"website",
		"address",
		"city",
		"province",
		"postal_code",
		"listing_url",
		"detail_url",
	}
}

// Row returns the record's values in column order.
func (r *Record) Row() []string {
	return []string{
		r.Source,
		r.Category,
		r.Region,
		r.BusinessName,
		r.Phone,
		r.Email,
		r.Website,
		r.Address,
		r.City,
		r.Province,
		r.PostalCode,
		r.ListingURL,
		r.DetailURL,
	}
}

// HasIdentity reports whether at least one identifying field is set.
// Records without identity are dropped, never emitted.
func (r *Record) HasIdentity() bool {
	return r.BusinessName != "" || r.Phone != "" || r.Email != "" || r.Website != ""
}

// newID returns a fresh record ID.
func newID() string {
	return uuid.NewString()
}

// setField assigns a normalized value to the named field.
func (r *Record) setField(field sources.Field, value string) {
	switch field {
	case sources.FieldBusinessName:
		r.BusinessName = value
	case sources.FieldPhone:
		r.Phone = value
	case sources.FieldEmail:
		r.Email = value
	case sources.FieldWebsite:
		r.Website = value
	case sources.FieldAddress:
		r.Address = value
	case sources.FieldCity:
		r.City = value
	case sources.FieldProvince:
		r.Province = value
	case sources.FieldPostalCode:
		r.PostalCode = value
	}
}

// CleanText trims leading/trailing whitespace and collapses internal
// runs of whitespace to a single space.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeEmail strips a mailto: scheme prefix and any query suffix
// (e.g. "?subject=...") from an extracted email value.
func NormalizeEmail(s string) string {
	s = CleanText(s)
	if len(s) >= len("mailto:") && strings.EqualFold(s[:len("mailto:")], "mailto:") {
		s = s[len("mailto:"):]
	}
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// NormalizePhone strips a tel: scheme prefix and all whitespace from an
// extracted phone value.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len("tel:") && strings.EqualFold(s[:len("tel:")], "tel:") {
		s = s[len("tel:"):]
	}
	return whitespaceRe.ReplaceAllString(s, "")
}

// CanonicalPhone reduces a phone value to a comparison key for
// deduplication: tel: prefix, whitespace, and common separators removed.
func CanonicalPhone(s string) string {
	s = NormalizePhone(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', '(', ')':
			return -1
		}
		return r
	}, s)
}
