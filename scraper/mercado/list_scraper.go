package mercado

import (
	"context"
	"errors"
	"fmt"

	"compra-agil-scraper/config"
	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

var (
	errNoCapture    = errors.New("no API response captured")
	errEmptyCapture = errors.New("captured response has no results")
)

// ListScraper retrieves every page of quick purchases for the configured
// date, one navigation at a time. Page 1 is fatal when it fails; any later
// page just loses its records and the run continues.
type ListScraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	nav     Navigator
	capture *APICapture
	stats   *utils.RunStats
	limiter *utils.RateLimiter
}

// NewListScraper creates a new ListScraper.
func NewListScraper(cfg *config.Config, logger *utils.Logger, nav Navigator, capture *APICapture, stats *utils.RunStats) *ListScraper {
	return &ListScraper{
		cfg:     cfg,
		logger:  logger,
		nav:     nav,
		capture: capture,
		stats:   stats,
		limiter: utils.NewRateLimiter(cfg.RequestDelay),
	}
}

// Run fetches all pages in order and returns the concatenated results.
// Cancellation returns whatever was accumulated so far along with ctx's
// error, so a partial extraction is never thrown away.
func (s *ListScraper) Run(ctx context.Context) ([]models.Listing, error) {
	s.logger.Info("Starting listing extraction for %s", s.cfg.ScrapeDate)
	if s.cfg.MaxPages > 0 {
		s.logger.Info("Page cap: %d", s.cfg.MaxPages)
	}

	// Page 1 carries the pagination metadata; without it there is no run.
	// The first Wait returns immediately but arms the limiter, so page 2
	// is already spaced relative to page 1.
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	firstPage, meta, err := s.fetchPage(ctx, 1)
	if err != nil {
		s.stats.AddErrors(1)
		return nil, fmt.Errorf("failed to fetch page 1: %w", err)
	}

	s.logger.Info("Total results: %d | Total pages: %d", meta.ResultCount, meta.PageCount)

	listings := append([]models.Listing(nil), firstPage...)
	s.stats.AddPages(1)
	s.stats.AddItems(len(firstPage))

	pagesToFetch := meta.PageCount
	if s.cfg.MaxPages > 0 && s.cfg.MaxPages < pagesToFetch {
		pagesToFetch = s.cfg.MaxPages
	}

	for page := 2; page <= pagesToFetch; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn("Extraction interrupted at page %d", page)
			return listings, err
		}

		results, _, err := s.fetchPage(ctx, page)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				s.logger.Warn("Extraction interrupted at page %d", page)
				return listings, err
			}
			// Non-fatal: the page's records are lost, the run continues.
			s.logger.Warn("Skipping page %d after exhausted retries: %v", page, err)
			s.stats.AddErrors(1)
			continue
		}

		listings = append(listings, results...)
		s.stats.AddPages(1)
		s.stats.AddItems(len(results))
		s.logger.Info("Progress: %d/%d pages | %d listings", page, pagesToFetch, len(listings))
	}

	s.logger.Info("Listing extraction complete: %d listings", len(listings))
	return listings, nil
}

// fetchPage navigates to one page with the configured retry policy and
// snapshots the captured results before the next clear can wipe them.
func (s *ListScraper) fetchPage(ctx context.Context, page int) ([]models.Listing, models.PaginationMeta, error) {
	url := BuildListURL(s.cfg.ScrapeDate, page)

	attempt := 0
	err := utils.RetryWithPause(ctx, s.cfg.MaxRetries, s.cfg.RequestDelay, s.logger, func() error {
		attempt++
		if attempt > 1 {
			s.stats.AddRetries(1)
		}

		s.capture.Clear()
		s.logger.Info("Navigating to page %d", page)
		if err := s.nav.Navigate(ctx, url); err != nil {
			return err
		}
		if !s.capture.HasResponse() {
			return fmt.Errorf("page %d: %w", page, errNoCapture)
		}
		// An empty result list on a page the server said exists means the
		// API call raced the settle wait; retry like a missing capture.
		if len(s.capture.Results()) == 0 {
			return fmt.Errorf("page %d: %w", page, errEmptyCapture)
		}
		return nil
	})
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	results := s.capture.Results()
	meta := s.capture.Pagination()
	s.logger.Info("Page %d processed: %d listings", page, len(results))
	return results, meta, nil
}
