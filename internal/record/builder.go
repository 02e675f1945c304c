package record

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/dircrawl/internal/logger"
	"github.com/jonesrussell/dircrawl/internal/sources"
)

// RawFields is the transient field-name to raw-string mapping produced by
// extraction from one listing card or detail page. Discarded after merge.
type RawFields map[sources.Field]string

// Input carries everything the builder needs to finalize one record.
type Input struct {
	// Source is the source configuration the record came from.
	Source *sources.Source
	// ListingURL is the listing page the card was found on.
	ListingURL string
	// DetailURL is the detail page, when one was fetched.
	DetailURL string
	// Listing holds the fields extracted from the listing card.
	Listing RawFields
	// Detail holds the fields extracted from the detail page (nil when no
	// detail page was fetched).
	Detail RawFields
	// ListingSelection is the card selection, used for fallback discovery.
	ListingSelection *goquery.Selection
	// DetailSelection is the detail document selection. Preferred over the
	// card for fallback discovery when present.
	DetailSelection *goquery.Selection
	// JSONLDEnrich enables JSON-LD enrichment of absent fields from the
	// detail document.
	JSONLDEnrich bool
}

// Builder merges raw field extractions into finalized records.
type Builder struct {
	logger logger.Interface
}

// NewBuilder creates a new record builder.
func NewBuilder(log logger.Interface) *Builder {
	return &Builder{logger: log}
}

// Build merges listing and detail fields into a record. Detail values
// override listing values for fields present in both. Values are
// whitespace-normalized, emails and phones get their scheme prefixes
// stripped, and website URLs are resolved absolute against the page they
// were extracted from. Records with no identifying field are dropped:
// Build returns (nil, false) for them.
func (b *Builder) Build(in *Input) (*Record, bool) {
	rec := &Record{
		ID:         newID(),
		Source:     in.Source.Name,
		Category:   in.Source.Category,
		Region:     in.Source.Region,
		ListingURL: in.ListingURL,
		DetailURL:  in.DetailURL,
	}

	for _, field := range sources.Fields() {
		value, from := mergedValue(in, field)
		if value == "" {
			continue
		}
		rec.setField(field, b.normalize(field, value, from))
	}

	b.applyFallbacks(rec, in)

	if in.JSONLDEnrich && in.DetailSelection != nil {
		EnrichFromJSONLD(rec, in.DetailSelection)
	}

	if !rec.HasIdentity() {
		b.logger.Debug("Dropping record with no identifying field",
			"source", in.Source.Name,
			"listing_url", in.ListingURL,
		)
		return nil, false
	}
	return rec, true
}

// mergedValue resolves the merge precedence for one field: detail wins
// over listing when both are present. It also reports which page the
// winning value came from, for URL resolution.
func mergedValue(in *Input, field sources.Field) (value, pageURL string) {
	if v, ok := in.Detail[field]; ok && v != "" {
		return v, in.DetailURL
	}
	if v, ok := in.Listing[field]; ok && v != "" {
		return v, in.ListingURL
	}
	return "", ""
}

// normalize applies field-specific normalization to a raw extracted value.
func (b *Builder) normalize(field sources.Field, value, pageURL string) string {
	switch field {
	case sources.FieldEmail:
		return NormalizeEmail(value)
	case sources.FieldPhone:
		return NormalizePhone(value)
	case sources.FieldWebsite:
		return absoluteURL(pageURL, CleanText(value))
	default:
		return CleanText(value)
	}
}

// applyFallbacks runs email and phone discovery when extraction produced
// neither. The detail document is scanned when one was fetched, else the
// listing card.
func (b *Builder) applyFallbacks(rec *Record, in *Input) {
	scanTarget := in.ListingSelection
	if in.DetailSelection != nil {
		scanTarget = in.DetailSelection
	}

	if rec.Email == "" {
		if email, ok := DiscoverEmail(scanTarget); ok {
			rec.Email = email
		}
	}
	if rec.Phone == "" {
		if phone, ok := DiscoverPhone(scanTarget); ok {
			rec.Phone = phone
		}
	}
}

// absoluteURL resolves href against base. A href that fails to parse is
// returned unchanged rather than lost.
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
