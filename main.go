package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compra-agil-scraper/config"
	"compra-agil-scraper/models"
	"compra-agil-scraper/scraper/mercado"
	"compra-agil-scraper/services"
	"compra-agil-scraper/storage"
	"compra-agil-scraper/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ================== Bootstrap ====================
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	logger.Info("Mercado Público Compra Ágil Scraper")
	logger.Info("Scrape date: %s | Strategy: %s", cfg.ScrapeDate, cfg.DetectionStrategy)
	logger.Info("Delay: %v | Timeout: %v | Retries: %d", cfg.RequestDelay, cfg.RequestTimeout, cfg.MaxRetries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := utils.NewRunStats()
	jsonStore := storage.NewJSONWriter(cfg.OutputDir, logger)

	// =================== Browser Setup ========================
	apiCapture := mercado.NewAPICapture(logger)
	detailCapture := mercado.NewDetailCapture(logger)

	session, err := mercado.NewBrowserSession(cfg, logger, apiCapture, detailCapture)
	if err != nil {
		logger.Error("Cannot start browser session: %v", err)
		return 1
	}
	defer session.Close()

	// =============== Listing Extraction ===================
	listScraper := mercado.NewListScraper(cfg, logger, session, apiCapture, stats)
	listings, err := listScraper.Run(ctx)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		logger.Error("Extraction failed: %v", err)
		stats.LogSummary(logger)
		return 1
	}
	if len(listings) == 0 {
		logger.Warn("No listings extracted for %s", cfg.ScrapeDate)
		stats.LogSummary(logger)
		return exitCode(interrupted)
	}

	timestamp := time.Now().Format("20060102_150405")
	if _, err := jsonStore.Save(fmt.Sprintf("compras_completas_%s.json", timestamp), listings); err != nil {
		logger.Error("Failed to save raw artifact: %v", err)
		// Non-fatal: classification can still run in-memory
	}

	// =============== Second-Call Detection ===================
	var confirmed []models.Listing
	switch cfg.DetectionStrategy {
	case "field":
		confirmed = services.FilterSecondCalls(listings, services.FieldDetector{}, logger)
	default:
		hybrid := services.NewHistoryDetector(logger, config.SecondCallKeywords)
		candidates := hybrid.PreFilter(listings)
		if len(candidates) > 0 && !interrupted {
			detailScraper := mercado.NewDetailScraper(cfg, logger, session, detailCapture, stats)
			candidates = detailScraper.EnrichAll(ctx, candidates)
			interrupted = interrupted || ctx.Err() != nil
		}
		confirmed = services.FilterSecondCalls(candidates, hybrid, logger)
	}

	// =============== Classification & Ranking ===================
	classifier := services.NewClassifier(
		services.DefaultClassifierConfig(cfg.SearchKeywords, cfg.RelevanceThreshold),
		logger,
	)
	ranked := classifier.Rank(classifier.Score(classifier.Enrich(confirmed)))

	if len(ranked) > 0 {
		if _, err := jsonStore.Save(fmt.Sprintf("compras_relevantes_%s.json", timestamp), ranked); err != nil {
			logger.Error("Failed to save results artifact: %v", err)
		}
	}

	// ========= PostgreSQL: optional result sink ============
	if cfg.DatabaseURL != "" && len(ranked) > 0 {
		pgWriter, err := storage.NewPostgresWriter(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Cannot connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.CreateTable(); err != nil {
				logger.Error("Failed to create DB table: %v", err)
			} else if err := pgWriter.SaveResults(ranked); err != nil {
				logger.Error("Failed to insert into PostgreSQL: %v", err)
			}
		}
	}

	// ==== Report ============================
	stats.LogSummary(logger)
	services.PrintRunReport(cfg.ScrapeDate, len(listings), ranked, stats.Summary())

	if interrupted {
		logger.Warn("Run interrupted: results above are partial")
	}
	return exitCode(interrupted)
}

func exitCode(interrupted bool) int {
	if interrupted {
		return 130
	}
	return 0
}
