package city24

import (
	"context"
	"fmt"
	"time"

	"apartment-scraper/models"
	"apartment-scraper/storage"
	"apartment-scraper/utils"
)

// Crawler walks the configured page range one page at a time and hands the
// accumulated records to the sink once the walk is over.
type Crawler struct {
	browser   Browser
	navigator *Navigator
	sink      storage.ListingWriter
	pacer     *utils.Pacer
	logger    *utils.Logger
}

func NewCrawler(b Browser, navigator *Navigator, sink storage.ListingWriter, pacer *utils.Pacer, logger *utils.Logger) *Crawler {
	return &Crawler{
		browser:   b,
		navigator: navigator,
		sink:      sink,
		pacer:     pacer,
		logger:    logger,
	}
}

// Run crawls pages 1..pageCount. Page failures never stop the run; the
// browser is closed exactly once on every exit path. The only error
// returned is a failure of the sink.
func (c *Crawler) Run(ctx context.Context, pageCount int) (result *models.CrawlResult, err error) {
	result = &models.CrawlResult{}
	result.Stats.PagesRequested = max(pageCount, 0)
	result.Stats.StartedAt = time.Now()

	defer func() {
		if cerr := c.browser.Close(); cerr != nil {
			c.logger.Warn("[crawler] Browser teardown failed: %v", cerr)
		}
	}()

	c.logger.Info("[crawler] Starting crawl: %d pages", pageCount)

	for page := 1; page <= pageCount; page++ {
		c.logger.Info("[crawler] Scraping page %d...", page)

		pr := c.navigator.ProcessPage(ctx, page)
		result.Append(pr.Records...)
		c.record(&result.Stats, pr)

		if page == pageCount {
			break
		}
		if perr := c.pacer.Pause(ctx); perr != nil {
			c.logger.Warn("[crawler] Stopping after page %d: %v", page, perr)
			break
		}
	}

	result.Stats.FinishedAt = time.Now()
	c.logger.Info("[crawler] Pages ok: %d | timed out: %d | failed: %d | listings dropped: %d",
		result.Stats.PagesOK, result.Stats.PagesTimedOut, result.Stats.PagesFailed, result.Stats.ListingsDropped())

	if result.Len() == 0 {
		c.logger.Warn("[crawler] No listings scraped.")
		return result, nil
	}

	if c.sink != nil {
		if werr := c.sink.Write(result.Records); werr != nil {
			return result, fmt.Errorf("crawler: write results: %w", werr)
		}
	}
	c.logger.Info("[crawler] Successfully saved %d listings", result.Len())
	return result, nil
}

func (c *Crawler) record(stats *models.CrawlStats, pr PageResult) {
	switch pr.Status {
	case PageOK:
		stats.PagesOK++
	case PageTimedOut:
		stats.PagesTimedOut++
	default:
		stats.PagesFailed++
	}
	stats.ListingsFound += pr.Found
	stats.ListingsKept += len(pr.Records)
}
