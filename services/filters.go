package services

import (
	"strconv"

	"compra-agil-scraper/models"
)

// Hard filters discard records outright; they are composable and run before
// any scoring. Each returns a fresh slice, the input is never modified.

// FilterByAmount keeps listings whose available amount lies in the inclusive
// range [min, max]. Nil bounds are open. Non-numeric amounts are excluded
// whenever any bound is set.
func FilterByAmount(listings []models.Listing, min, max *float64) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.AvailableAmount.Valid {
			continue
		}
		if min != nil && l.AvailableAmount.Value < *min {
			continue
		}
		if max != nil && l.AvailableAmount.Value > *max {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FilterByDate keeps listings whose publication date falls within the
// inclusive calendar-date range. Bounds are YYYY-MM-DD; empty means open.
// Listings with unparseable publication dates are excluded.
func FilterByDate(listings []models.Listing, from, to string) []models.Listing {
	// Comparison is by calendar date: YYYY-MM-DD strings order correctly.
	var fromDay, toDay string
	if t, ok := models.ParseDate(from); ok {
		fromDay = t.Format("2006-01-02")
	}
	if t, ok := models.ParseDate(to); ok {
		toDay = t.Format("2006-01-02")
	}

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		pub, ok := models.ParseDate(l.PublicationDate)
		if !ok {
			continue
		}
		day := pub.Format("2006-01-02")
		if fromDay != "" && day < fromDay {
			continue
		}
		if toDay != "" && day > toDay {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FindByCode looks a listing up by its exact code, falling back to the
// numeric id when no code matches and the query parses as a number.
func FindByCode(listings []models.Listing, code string) []models.Listing {
	if code == "" {
		return nil
	}

	for _, l := range listings {
		if l.Code == code {
			return []models.Listing{l}
		}
	}

	id, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return nil
	}
	for _, l := range listings {
		if l.ID == id {
			return []models.Listing{l}
		}
	}
	return nil
}
