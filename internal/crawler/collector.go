package crawler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/dircrawl/internal/logger"
	"github.com/jonesrussell/dircrawl/internal/metrics"
)

// detailURLKey carries the enqueued detail URL through the request
// context. Redirects rewrite the request URL, and results must stay
// addressable by the URL the listing card linked to.
const detailURLKey = "detail_url"

// newCollector configures a colly collector with the run's politeness
// settings. Listing collectors are synchronous so pagination stays
// page-sequential; detail collectors are async with the configured
// parallelism ceiling.
func (c *Crawler) newCollector(ctx context.Context, async bool) (*colly.Collector, error) {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.UserAgent(c.settings.UserAgent),
	}
	if async {
		opts = append(opts, colly.Async(true))
	}

	collector := colly.NewCollector(opts...)
	collector.SetRequestTimeout(c.settings.RequestTimeout)
	collector.IgnoreRobotsTxt = !c.settings.RespectRobotsTxt

	err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.settings.Parallelism,
		Delay:       c.settings.Delay,
	})
	if err != nil {
		return nil, err
	}
	return collector, nil
}

// fetcher fetches one page at a time through a synchronous collector and
// hands back the parsed document. Not using AllowURLRevisit means a
// pagination selector pointing back at a visited page surfaces as a
// visit error, ending the chain.
type fetcher struct {
	collector *colly.Collector

	mu       sync.Mutex
	doc      *goquery.Document
	finalURL string
	fetchErr error
}

// newFetcher creates a fetcher over the given synchronous collector.
func newFetcher(collector *colly.Collector) *fetcher {
	f := &fetcher{collector: collector}

	collector.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.fetchErr = err
			return
		}
		f.doc = doc
		f.finalURL = r.Request.URL.String()
	})
	collector.OnError(func(r *colly.Response, err error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fetchErr = err
	})

	return f
}

// fetch retrieves rawURL and returns its document and final URL after
// redirects. Any network, timeout, or HTTP error is returned as this
// page's failure.
func (f *fetcher) fetch(rawURL string) (*goquery.Document, string, error) {
	f.mu.Lock()
	f.doc, f.finalURL, f.fetchErr = nil, "", nil
	f.mu.Unlock()

	if err := f.collector.Visit(rawURL); err != nil {
		return nil, "", err
	}
	f.collector.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	if f.doc == nil {
		return nil, "", errors.New("no parseable response")
	}
	return f.doc, f.finalURL, nil
}

// detailFetcher fetches detail pages concurrently through an async
// collector, bounded by the collector's parallelism limit. Results are
// collected by URL; a failed detail fetch simply leaves no document, and
// the record proceeds with listing-only fields.
type detailFetcher struct {
	collector *colly.Collector
	logger    logger.Interface
	metrics   *metrics.Metrics

	mu   sync.Mutex
	docs map[string]*goquery.Document
}

// newDetailFetcher creates a detail fetcher over the given async collector.
func newDetailFetcher(collector *colly.Collector, log logger.Interface, m *metrics.Metrics) *detailFetcher {
	d := &detailFetcher{
		collector: collector,
		logger:    log,
		metrics:   m,
		docs:      make(map[string]*goquery.Document),
	}

	collector.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			d.logger.Debug("Failed to parse detail page", "url", r.Request.URL.String(), "error", err)
			return
		}
		key := r.Ctx.Get(detailURLKey)
		if key == "" {
			key = r.Request.URL.String()
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		d.docs[key] = doc
	})
	collector.OnError(func(r *colly.Response, err error) {
		d.metrics.IncrementFailedRequests()
		d.logger.Debug("Detail fetch failed, proceeding with listing fields",
			"url", r.Request.URL.String(),
			"error", err,
		)
	})

	return d
}

// enqueue schedules a detail page fetch. Duplicate URLs within a page are
// fetched once and shared. The enqueued URL rides along in the request
// context so a redirected fetch is still findable under it.
func (d *detailFetcher) enqueue(url string) {
	ctx := colly.NewContext()
	ctx.Put(detailURLKey, url)
	if err := d.collector.Request(http.MethodGet, url, nil, ctx, nil); err != nil {
		d.logger.Debug("Skipping detail visit", "url", url, "error", err)
	}
}

// wait blocks until all enqueued fetches complete or time out.
func (d *detailFetcher) wait() {
	d.collector.Wait()
}

// doc returns the fetched document for the URL, or nil when the fetch
// failed or was never enqueued.
func (d *detailFetcher) doc(url string) *goquery.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.docs[url]
}
