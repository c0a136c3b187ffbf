package services_test

import (
	"testing"

	"compra-agil-scraper/models"
	"compra-agil-scraper/services"
)

func amount(v float64) models.Amount {
	return models.Amount{Value: v, Valid: true}
}

func TestFilterByAmount(t *testing.T) {
	in := []models.Listing{
		{Code: "low", AvailableAmount: amount(100_000)},
		{Code: "mid", AvailableAmount: amount(500_000)},
		{Code: "high", AvailableAmount: amount(2_000_000)},
		{Code: "invalid"}, // amount was not a number
	}
	min, max := 200_000.0, 1_000_000.0

	out := services.FilterByAmount(in, &min, &max)
	if len(out) != 1 || out[0].Code != "mid" {
		t.Fatalf("filtered = %v, want only mid", out)
	}

	// Open lower bound still excludes non-numeric amounts.
	out = services.FilterByAmount(in, nil, &max)
	if len(out) != 2 {
		t.Errorf("open lower bound kept %d, want 2", len(out))
	}

	out = services.FilterByAmount(in, &min, nil)
	if len(out) != 2 {
		t.Errorf("open upper bound kept %d, want 2", len(out))
	}
}

func TestFilterByDate(t *testing.T) {
	in := []models.Listing{
		{Code: "early", PublicationDate: "2025-10-18 09:00:00"},
		{Code: "inside", PublicationDate: "2025-10-20T15:30:00"},
		{Code: "edge", PublicationDate: "2025-10-21"},
		{Code: "late", PublicationDate: "2025-10-25 08:00:00"},
		{Code: "broken", PublicationDate: "sin fecha"},
	}

	out := services.FilterByDate(in, "2025-10-19", "2025-10-21")
	if len(out) != 2 {
		t.Fatalf("filtered = %d listings, want 2", len(out))
	}
	if out[0].Code != "inside" || out[1].Code != "edge" {
		t.Errorf("filtered = [%s %s], want [inside edge]", out[0].Code, out[1].Code)
	}

	// Open bounds keep everything parseable.
	out = services.FilterByDate(in, "", "")
	if len(out) != 4 {
		t.Errorf("open range kept %d, want 4 (broken date excluded)", len(out))
	}
}

func TestFindByCode(t *testing.T) {
	in := []models.Listing{
		{ID: 111, Code: "111-1-COT21", Name: "A"},
		{ID: 999, Name: "B"},
	}

	if out := services.FindByCode(in, "111-1-COT21"); len(out) != 1 || out[0].Name != "A" {
		t.Errorf("exact code lookup = %v, want A", out)
	}
	if out := services.FindByCode(in, "999"); len(out) != 1 || out[0].Name != "B" {
		t.Errorf("id fallback lookup = %v, want B", out)
	}
	if out := services.FindByCode(in, "404-4-COT04"); out != nil {
		t.Errorf("unknown code = %v, want nil", out)
	}
	if out := services.FindByCode(in, ""); out != nil {
		t.Errorf("empty query = %v, want nil", out)
	}
}
