package services

import (
	"strings"

	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

// SecondCallDetector is one of the two competing detection strategies. They
// are never merged: the orchestrator picks one per run.
type SecondCallDetector interface {
	Name() string
	IsSecondCall(l models.Listing) bool
}

// FieldDetector trusts the estado_convocatoria field: 2 means second call.
// An exact partition with no false positives when the feed populates it.
type FieldDetector struct{}

func (FieldDetector) Name() string { return "field" }

func (FieldDetector) IsSecondCall(l models.Listing) bool {
	return int(l.CallState) == models.SecondCall
}

// HistoryDetector is the text+history hybrid: a keyword pre-filter over the
// listing name marks candidates, and a publication history with more than
// one entry confirms them. Listings without an attached detail are never
// confirmed.
type HistoryDetector struct {
	logger   *utils.Logger
	keywords []string // pre-normalized
}

// NewHistoryDetector creates the hybrid detector over the given second-call
// keywords ("segundo llamado", "2do llamado", ...).
func NewHistoryDetector(logger *utils.Logger, keywords []string) *HistoryDetector {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		normalized = append(normalized, NormalizeText(k))
	}
	return &HistoryDetector{logger: logger, keywords: normalized}
}

func (d *HistoryDetector) Name() string { return "history" }

// PreFilter marks each listing whose name mentions a second-call keyword as
// a candidate and returns only the candidates, preserving order.
func (d *HistoryDetector) PreFilter(listings []models.Listing) []models.Listing {
	candidates := make([]models.Listing, 0)
	for _, l := range listings {
		name := NormalizeText(l.Name)
		var matched []string
		for _, kw := range d.keywords {
			if strings.Contains(name, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		l.PossibleSecondCall = true
		candidates = append(candidates, l)
	}
	d.logger.Info("Text pre-filter: %d of %d listings are possible second calls",
		len(candidates), len(listings))
	return candidates
}

// IsSecondCall confirms a candidate by its publication history.
func (d *HistoryDetector) IsSecondCall(l models.Listing) bool {
	return l.Detail != nil && len(l.Detail.History) > 1
}

// FilterSecondCalls applies a detector as a hard filter and marks the
// survivors as confirmed.
func FilterSecondCalls(listings []models.Listing, det SecondCallDetector, logger *utils.Logger) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if det.IsSecondCall(l) {
			l.ConfirmedSecondCall = true
			out = append(out, l)
		}
	}
	total := len(listings)
	if total > 0 {
		logger.Info("Second-call filter (%s): %d of %d (%.1f%%)",
			det.Name(), len(out), total, float64(len(out))/float64(total)*100)
	} else {
		logger.Info("Second-call filter (%s): nothing to filter", det.Name())
	}
	return out
}
