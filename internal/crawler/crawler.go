package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/jonesrussell/dircrawl/internal/config"
	"github.com/jonesrussell/dircrawl/internal/logger"
	"github.com/jonesrussell/dircrawl/internal/metrics"
	"github.com/jonesrussell/dircrawl/internal/output"
	"github.com/jonesrussell/dircrawl/internal/record"
	"github.com/jonesrussell/dircrawl/internal/selector"
	"github.com/jonesrussell/dircrawl/internal/sources"
)

// Interface defines the crawl orchestrator.
type Interface interface {
	// Run crawls every enabled source until its pagination is exhausted or
	// a stop condition fires. It returns the aggregated source errors;
	// page-level failures are absorbed and reflected only in metrics.
	Run(ctx context.Context) error
	// GetMetrics returns the run metrics.
	GetMetrics() *metrics.Metrics
}

// Crawler drives the fetch, extract, detail-follow, and pagination loop
// for each configured source.
type Crawler struct {
	logger   logger.Interface
	settings *config.Settings
	sources  sources.Interface
	builder  *record.Builder
	sink     output.Sink
	metrics  *metrics.Metrics
	state    *State
	runID    string
}

var _ Interface = (*Crawler)(nil)

// New creates a new crawler. Settings must already be merged and
// validated; sources must already be loaded and validated.
func New(
	log logger.Interface,
	settings *config.Settings,
	srcs sources.Interface,
	sink output.Sink,
) *Crawler {
	return &Crawler{
		logger:   log,
		settings: settings,
		sources:  srcs,
		builder:  record.NewBuilder(log),
		sink:     sink,
		metrics:  metrics.NewMetrics(),
		state:    NewState(log),
		runID:    uuid.NewString(),
	}
}

// GetMetrics returns the run metrics.
func (c *Crawler) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// State returns the crawl state.
func (c *Crawler) State() *State {
	return c.state
}

// Run crawls every enabled source sequentially, each with its own
// collectors and a fresh page chain, sharing the run clock and the item
// counter. Source errors do not abort the run; they are aggregated into
// the returned error after every source has been attempted.
func (c *Crawler) Run(ctx context.Context) error {
	if c.state.IsRunning() {
		return ErrAlreadyRunning
	}
	c.state.Start(ctx)
	defer c.state.Stop()

	log := c.logger.WithRunID(c.runID)
	enabled := c.sources.Enabled()
	log.Info("Starting crawl run",
		"sources", len(enabled),
		"max_runtime", c.settings.MaxRuntime,
		"max_items", c.settings.MaxItems,
	)

	var sourceErrs []error
	for i := range enabled {
		src := &enabled[i]
		if c.timedOut() || c.capReached() {
			log.Info("Stop condition reached, skipping remaining sources",
				"skipped_from", src.Name)
			break
		}

		c.state.SetCurrentSource(src.Name)
		c.metrics.SetCurrentSource(src.Name)
		if err := c.crawlSource(ctx, src); err != nil {
			c.metrics.IncrementSourceErrors()
			log.Error("Source failed", "source", src.Name, "error", err)
			sourceErrs = append(sourceErrs, err)
		}
	}

	log.Info("Crawl run complete",
		"records", c.metrics.GetRecordCount(),
		"pages", c.metrics.GetPageCount(),
		"failed_requests", c.metrics.GetFailedRequests(),
		"source_errors", c.metrics.GetSourceErrors(),
		"duration", c.state.Elapsed(),
	)
	return errors.Join(sourceErrs...)
}

// timedOut reports whether the run clock has expired. Only meaningful at
// page boundaries: the run's first fetch is always attempted, so a zero
// max-runtime yields at most one fetched listing page even when that
// first fetch fails.
func (c *Crawler) timedOut() bool {
	attempted := c.metrics.GetPageCount() + c.metrics.GetFailedRequests()
	return attempted > 0 && c.state.Elapsed() >= c.settings.MaxRuntime
}

// capReached reports whether the item cap has been hit (0 = no cap).
func (c *Crawler) capReached() bool {
	return c.settings.MaxItems > 0 && c.state.RecordCount() >= c.settings.MaxItems
}

// compiledSource is a source config with every selector expression parsed.
type compiledSource struct {
	src           *sources.Source
	itemSelectors []selector.Expression
	listingFields map[sources.Field][]selector.Expression
	detailLink    []selector.Expression
	detailFields  map[sources.Field][]selector.Expression
	nextPage      []selector.Expression
}

// compileSource parses the source's selector expressions. Load-time
// validation already compiled them once, so failure here means the
// config changed underneath us.
func compileSource(src *sources.Source) (*compiledSource, error) {
	cs := &compiledSource{src: src}

	var err error
	if cs.itemSelectors, err = selector.ParseAll(src.Listing.ItemSelector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cs.detailLink, err = selector.ParseAll(src.Listing.DetailLinkSelector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cs.nextPage, err = selector.ParseAll(src.Pagination.NextPageSelector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cs.listingFields, err = compileFields(src.Listing.Fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cs.detailFields, err = compileFields(src.Detail.Fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cs, nil
}

// compileFields parses a field spec into expressions.
func compileFields(spec sources.FieldSpec) (map[sources.Field][]selector.Expression, error) {
	compiled := make(map[sources.Field][]selector.Expression, len(spec))
	for field, exprs := range spec {
		parsed, err := selector.ParseAll(exprs)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		compiled[field] = parsed
	}
	return compiled, nil
}

// crawlSource runs the listing, detail, and pagination loop for one
// source. Only the failure of the source's very first page is an error;
// later page failures end that pagination chain and the crawl moves on.
func (c *Crawler) crawlSource(ctx context.Context, src *sources.Source) error {
	cs, err := compileSource(src)
	if err != nil {
		return &SourceError{Source: src.Name, Err: err}
	}

	listingCollector, err := c.newCollector(ctx, false)
	if err != nil {
		return &SourceError{Source: src.Name, Err: err}
	}
	detailCollector, err := c.newCollector(ctx, true)
	if err != nil {
		return &SourceError{Source: src.Name, Err: err}
	}

	listing := newFetcher(listingCollector)
	details := newDetailFetcher(detailCollector, c.logger, c.metrics)
	log := c.logger.WithSource(src.Name)

	firstPage := true
	for _, start := range src.StartURLs {
		if c.timedOut() || c.capReached() {
			return nil
		}

		current := start
		for current != "" {
			c.state.SetCurrentURL(current)
			doc, pageURL, fetchErr := listing.fetch(current)
			if fetchErr != nil {
				c.metrics.IncrementFailedRequests()
				if firstPage {
					return &SourceError{
						Source: src.Name,
						Err:    fmt.Errorf("%w: %s: %w", ErrSourceUnreachable, current, fetchErr),
					}
				}
				log.Warn("Listing fetch failed, ending pagination chain",
					"url", current, "error", fetchErr)
				break
			}
			firstPage = false
			c.metrics.IncrementPages()

			capReached := c.processListing(cs, doc, pageURL, details, log)
			if capReached {
				log.Info("Item cap reached", "records", c.state.RecordCount())
				return nil
			}
			if c.timedOut() {
				log.Info("Max runtime reached", "elapsed", c.state.Elapsed())
				return nil
			}

			next := c.nextPageURL(cs, doc, pageURL)
			if next == "" || next == current || next == pageURL {
				break
			}
			log.Debug("Following pagination", "from", pageURL, "to", next)
			current = next
		}
	}
	return nil
}

// listingCard is one card's extraction staged for record building.
type listingCard struct {
	selection *goquery.Selection
	fields    record.RawFields
	detailURL string
}

// processListing extracts every card on the page, fetches configured
// detail pages, and emits records in card discovery order. Returns true
// when the item cap fires, which halts the run mid-page.
func (c *Crawler) processListing(
	cs *compiledSource,
	doc *goquery.Document,
	pageURL string,
	details *detailFetcher,
	log logger.Interface,
) bool {
	cards := c.collectCards(cs, doc, pageURL)
	log.Debug("Extracted listing page", "url", pageURL, "cards", len(cards))

	if len(cards) == 0 {
		if cs.src.UseJSONLDFallback() {
			return c.emitJSONLD(cs, doc, pageURL, log)
		}
		return false
	}

	followDetails := cs.src.HasDetail()
	if followDetails {
		for _, card := range cards {
			if card.detailURL != "" {
				details.enqueue(card.detailURL)
			}
		}
		details.wait()
	}

	for i, card := range cards {
		if c.capReached() {
			log.Debug("Item cap reached mid-page", "url", pageURL, "card", i)
			return true
		}

		in := &record.Input{
			Source:           cs.src,
			ListingURL:       pageURL,
			Listing:          card.fields,
			ListingSelection: card.selection,
			JSONLDEnrich:     cs.src.UseJSONLDFallback(),
		}
		if followDetails && card.detailURL != "" {
			if detailDoc := details.doc(card.detailURL); detailDoc != nil {
				in.DetailURL = card.detailURL
				in.Detail = extractFields(detailDoc.Selection, cs.detailFields)
				in.DetailSelection = detailDoc.Selection
			}
		}

		c.emit(in, log)
	}
	return c.capReached()
}

// collectCards locates the listing cards and extracts their fields and
// detail links.
func (c *Crawler) collectCards(cs *compiledSource, doc *goquery.Document, pageURL string) []listingCard {
	var cards []listingCard
	for _, itemExpr := range cs.itemSelectors {
		doc.Find(itemExpr.Query).Each(func(_ int, sel *goquery.Selection) {
			card := listingCard{
				selection: sel,
				fields:    extractFields(sel, cs.listingFields),
			}
			if len(cs.detailLink) > 0 {
				if href, ok := selector.FirstAttr(sel, cs.detailLink, "href"); ok {
					card.detailURL = resolveURL(pageURL, href)
				}
			}
			cards = append(cards, card)
		})
	}
	return cards
}

// emitJSONLD emits records from the page's JSON-LD business objects.
// Used only when the item selector matched nothing.
func (c *Crawler) emitJSONLD(
	cs *compiledSource,
	doc *goquery.Document,
	pageURL string,
	log logger.Interface,
) bool {
	objects := record.JSONLDBusinesses(doc.Selection)
	if len(objects) == 0 {
		return false
	}
	log.Debug("Falling back to JSON-LD extraction", "url", pageURL, "objects", len(objects))

	for _, fields := range objects {
		if c.capReached() {
			return true
		}
		c.emit(&record.Input{
			Source:     cs.src,
			ListingURL: pageURL,
			Listing:    fields,
		}, log)
	}
	return c.capReached()
}

// emit builds one record and writes it to the sink.
func (c *Crawler) emit(in *record.Input, log logger.Interface) {
	rec, ok := c.builder.Build(in)
	if !ok {
		c.metrics.IncrementDropped()
		return
	}

	if err := c.sink.Write(rec); err != nil {
		log.Error("Failed to write record", "record_id", rec.ID, "error", err)
		return
	}
	c.metrics.IncrementRecords()
	c.state.IncrementRecords()
}

// nextPageURL applies the pagination selector and resolves the next URL,
// or returns "" when pagination is exhausted.
func (c *Crawler) nextPageURL(cs *compiledSource, doc *goquery.Document, pageURL string) string {
	if len(cs.nextPage) == 0 {
		return ""
	}
	href, ok := selector.FirstAttr(doc.Selection, cs.nextPage, "href")
	if !ok {
		return ""
	}
	return resolveURL(pageURL, href)
}

// extractFields runs the selector engine over one selection for every
// configured field. Website fields default to href extraction; everything
// else defaults to text content. A selector that matches nothing leaves
// its field absent.
func extractFields(sel *goquery.Selection, spec map[sources.Field][]selector.Expression) record.RawFields {
	fields := make(record.RawFields, len(spec))
	for field, exprs := range spec {
		var value string
		var ok bool
		if field == sources.FieldWebsite {
			value, ok = selector.FirstAttr(sel, exprs, "href")
		} else {
			value, ok = selector.FirstText(sel, exprs)
		}
		if ok {
			fields[field] = value
		}
	}
	return fields
}

// resolveURL resolves href against base, returning "" for unparseable input.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
