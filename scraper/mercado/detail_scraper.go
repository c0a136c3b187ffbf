package mercado

import (
	"context"
	"encoding/json"
	"time"

	"compra-agil-scraper/config"
	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

// DetailScraper visits each candidate's ficha page and merges the captured
// detail onto the listing. A failed item passes through unenriched, so the
// output always has the same length and order as the input.
type DetailScraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	nav     Navigator
	capture *DetailCapture
	stats   *utils.RunStats
	limiter *utils.RateLimiter
	tracker *utils.CodeTracker
}

// NewDetailScraper creates a new DetailScraper.
func NewDetailScraper(cfg *config.Config, logger *utils.Logger, nav Navigator, capture *DetailCapture, stats *utils.RunStats) *DetailScraper {
	return &DetailScraper{
		cfg:     cfg,
		logger:  logger,
		nav:     nav,
		capture: capture,
		stats:   stats,
		limiter: utils.NewRateLimiter(cfg.RequestDelay),
		tracker: utils.NewCodeTracker(),
	}
}

// EnrichAll processes candidates in input order up to the configured cap.
// On interruption the remaining candidates are passed through untouched.
func (s *DetailScraper) EnrichAll(ctx context.Context, listings []models.Listing) []models.Listing {
	toProcess := len(listings)
	if s.cfg.MaxDetails > 0 && s.cfg.MaxDetails < toProcess {
		toProcess = s.cfg.MaxDetails
	}
	s.logger.Info("Starting detail extraction: %d of %d candidates", toProcess, len(listings))

	out := make([]models.Listing, 0, len(listings))
	for i, listing := range listings {
		if i >= toProcess || ctx.Err() != nil {
			out = append(out, listing)
			continue
		}

		if i > 0 {
			if err := s.limiter.Wait(ctx); err != nil {
				out = append(out, listing)
				continue
			}
		}

		out = append(out, s.enrichOne(ctx, listing))
		s.logger.Info("Progress: %d/%d details", i+1, toProcess)
	}

	s.logger.Info("Detail extraction complete")
	return out
}

// enrichOne fetches one ficha. Any failure degrades to the original record.
func (s *DetailScraper) enrichOne(ctx context.Context, listing models.Listing) models.Listing {
	code := listing.Code
	if code == "" {
		s.logger.Warn("Listing without code, skipping detail (id=%d)", listing.ID)
		return listing
	}
	if !s.tracker.Add(code) {
		s.logger.Debug("Duplicate code %s, skipping detail fetch", code)
		return listing
	}

	s.capture.Clear()
	s.logger.Info("Fetching detail: %s", code)

	if err := s.nav.Navigate(ctx, BuildFichaURL(code)); err != nil {
		s.logger.Warn("Detail navigation failed for %s: %v", code, err)
		s.stats.AddErrors(1)
		return listing
	}

	ficha := s.capture.Ficha()
	if ficha == nil {
		s.logger.Warn("No ficha captured for %s", code)
		s.stats.AddErrors(1)
		return listing
	}

	history := s.capture.History()
	if history == nil {
		history = []json.RawMessage{}
	}

	listing.Detail = &models.Detail{
		Code:      code,
		Ficha:     ficha,
		History:   history,
		FetchedAt: time.Now(),
	}
	s.stats.AddItems(1)
	return listing
}
