// Package sources provides source configuration types and loading for the
// directory sites to be crawled. All site-specific knowledge lives here:
// start URLs, per-field selector expressions, detail-page follow rules,
// and pagination.
package sources

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/jonesrussell/dircrawl/internal/selector"
)

// Field identifies one extractable record field.
type Field string

// The enumerated record fields a selector spec may target.
const (
	FieldBusinessName Field = "business_name"
	FieldPhone        Field = "phone"
	FieldEmail        Field = "email"
	FieldWebsite      Field = "website"
	FieldAddress      Field = "address"
	FieldCity         Field = "city"
	FieldProvince     Field = "province"
	FieldPostalCode   Field = "postal_code"
)

// Fields lists the known fields in canonical order.
func Fields() []Field {
	return []Field{
		FieldBusinessName,
		FieldPhone,
		FieldEmail,
		FieldWebsite,
		FieldAddress,
		FieldCity,
		FieldProvince,
		FieldPostalCode,
	}
}

// Known reports whether the field is one of the enumerated record fields.
func (f Field) Known() bool {
	switch f {
	case FieldBusinessName, FieldPhone, FieldEmail, FieldWebsite,
		FieldAddress, FieldCity, FieldProvince, FieldPostalCode:
		return true
	default:
		return false
	}
}

// SelectorList holds one or more selector expressions for a single
// target. Expressions are tried in order; the first that extracts a
// non-empty value wins. A bare string in YAML decodes to a single-element
// list.
type SelectorList []string

// FieldSpec maps field names to their selector expressions.
type FieldSpec map[Field]SelectorList

// Validate checks every field name against the enum and compiles every
// selector expression.
func (fs FieldSpec) Validate() error {
	for field, selectors := range fs {
		if !field.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		if err := selector.Validate(selectors); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidSelector, field, err)
		}
	}
	return nil
}

// ListingSpec describes how to extract items from a listing page.
type ListingSpec struct {
	// ItemSelector locates the listing-card elements.
	ItemSelector SelectorList `mapstructure:"item_selector"`
	// Fields maps record fields to selector expressions scoped to one card.
	Fields FieldSpec `mapstructure:"fields"`
	// DetailLinkSelector locates the per-card link to the detail page.
	DetailLinkSelector SelectorList `mapstructure:"detail_link_selector"`
}

// Validate validates the listing spec.
func (l *ListingSpec) Validate() error {
	if len(l.ItemSelector) == 0 {
		return errors.New("listing.item_selector is required")
	}
	if err := selector.Validate(l.ItemSelector); err != nil {
		return fmt.Errorf("%w: listing.item_selector: %w", ErrInvalidSelector, err)
	}
	if err := l.Fields.Validate(); err != nil {
		return fmt.Errorf("listing.fields: %w", err)
	}
	if err := selector.Validate(l.DetailLinkSelector); err != nil {
		return fmt.Errorf("%w: listing.detail_link_selector: %w", ErrInvalidSelector, err)
	}
	return nil
}

// DetailSpec describes how to extract fields from a detail page.
type DetailSpec struct {
	// Fields maps record fields to selector expressions scoped to the document.
	Fields FieldSpec `mapstructure:"fields"`
}

// Validate validates the detail spec.
func (d *DetailSpec) Validate() error {
	if err := d.Fields.Validate(); err != nil {
		return fmt.Errorf("detail.fields: %w", err)
	}
	return nil
}

// PaginationSpec describes how to find the next listing page.
type PaginationSpec struct {
	// NextPageSelector locates the "next page" link. Absent means the
	// source has a single page per start URL.
	NextPageSelector SelectorList `mapstructure:"next_page_selector"`
}

// Validate validates the pagination spec.
func (p *PaginationSpec) Validate() error {
	if err := selector.Validate(p.NextPageSelector); err != nil {
		return fmt.Errorf("%w: pagination.next_page_selector: %w", ErrInvalidSelector, err)
	}
	return nil
}

// Source represents one configured directory site. Immutable once loaded.
type Source struct {
	// Name is the unique identifier for the source.
	Name string `mapstructure:"name"`
	// Category tags emitted records (optional).
	Category string `mapstructure:"category"`
	// Region tags emitted records (optional).
	Region string `mapstructure:"region"`
	// Enabled gates the source; disabled sources are skipped. Defaults to true.
	Enabled *bool `mapstructure:"enabled"`
	// StartURLs are the initial listing URLs to fetch.
	StartURLs []string `mapstructure:"start_urls"`
	// Listing describes listing-page extraction.
	Listing ListingSpec `mapstructure:"listing"`
	// Detail describes detail-page extraction (optional).
	Detail DetailSpec `mapstructure:"detail"`
	// Pagination describes how to reach the next listing page (optional).
	Pagination PaginationSpec `mapstructure:"pagination"`
	// JSONLDFallback enables JSON-LD structured-data extraction when a
	// listing page yields no cards. Defaults to true.
	JSONLDFallback *bool `mapstructure:"jsonld_fallback"`
}

// IsEnabled reports whether the source should be crawled.
func (s *Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// UseJSONLDFallback reports whether JSON-LD fallback extraction applies.
func (s *Source) UseJSONLDFallback() bool {
	return s.JSONLDFallback == nil || *s.JSONLDFallback
}

// HasDetail reports whether the source follows detail pages.
func (s *Source) HasDetail() bool {
	return len(s.Listing.DetailLinkSelector) > 0 && len(s.Detail.Fields) > 0
}

// Validate validates the source configuration. Any failure here is a
// configuration error surfaced before crawling begins.
func (s *Source) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.StartURLs) == 0 {
		return errors.New("at least one start_url is required")
	}
	for _, raw := range s.StartURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid start_url %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("start_url %q must be a valid HTTP(S) URL", raw)
		}
	}
	if err := s.Listing.Validate(); err != nil {
		return err
	}
	if err := s.Detail.Validate(); err != nil {
		return err
	}
	return s.Pagination.Validate()
}
